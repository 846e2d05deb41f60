package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKundliJSON = `{
	"basic_info": {"rashi": "Simha (Leo)", "nakshatra": "Magha", "lagna": "Tula (Libra)", "tithi": "Purnima"},
	"planetary_positions": [
		{"planet": "Sun", "sign": "Leo", "house": 11, "degree": "12` + "°" + `10'", "strength": "Own Sign"},
		{"planet": "Moon", "sign": "Cancer", "house": 10, "degree": "3` + "°" + `45'", "strength": "Own Sign"}
	],
	"predictions": {"personality": "Confident and generous.", "career": "Leadership roles suit you.", "health": "Good vitality.", "relationships": "Warm family ties.", "finances": "Steady growth."},
	"remedies": ["Offer water to the Sun at sunrise"],
	"lucky_elements": {"numbers": [1, 9], "colors": ["Gold"], "days": ["Sunday"], "direction": "East"}
}`

func fakeLLMServer(t *testing.T, content string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)
}

func TestBuildKundliRendersAllSectionsFromLLMResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fakeLLMServer(t, testKundliJSON)

	kundli := buildKundli(KundliRequest{Name: "Asha", Date: "1990-01-01", Time: "06:30", Place: "Pune"})

	basic, ok := kundliSection(kundli["basic_info"])
	require.True(t, ok)
	assert.Equal(t, "Asha", basic["name"])
	assert.Equal(t, "Simha (Leo)", basic["rashi"])

	rows := kundliRows(kundli["planetary_positions"])
	require.Len(t, rows, 2)
	assert.Equal(t, "Sun", rows[0]["planet"])

	predictions, ok := kundliSection(kundli["predictions"])
	require.True(t, ok)
	assert.Equal(t, "Leadership roles suit you.", predictions["career"])

	remedies := kundliStrings(kundli["remedies"])
	require.Len(t, remedies, 1)
	assert.Equal(t, "Offer water to the Sun at sunrise", remedies[0])
}

func TestBuildKundliSampleChartSections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("OPENAI_API_KEY", "")

	kundli := buildKundli(KundliRequest{Name: "Ravi", Date: "1985-06-15", Time: "14:00", Place: "Delhi"})

	basic, ok := kundliSection(kundli["basic_info"])
	require.True(t, ok)
	assert.Equal(t, "Ravi", basic["name"])
	assert.NotEmpty(t, kundliRows(kundli["planetary_positions"]))
	_, ok = kundliSection(kundli["predictions"])
	assert.True(t, ok)
	assert.NotEmpty(t, kundliStrings(kundli["remedies"]))
}

func TestDownloadKundliPDFWithLLMResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fakeLLMServer(t, testKundliJSON)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, err := json.Marshal(KundliRequest{Name: "Asha", Date: "1990-01-01", Time: "06:30", Place: "Pune"})
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/features/kundli/pdf", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	DownloadKundliPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
