package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/ws"
)

func setupRouterTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Astrologer{}, &models.Product{}))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return SetupRouter(ws.NewHub(), ws.NewRoomRegistry()), db
}

func TestShopItemsServedUnderBothPrefixes(t *testing.T) {
	router, db := setupRouterTest(t)
	require.NoError(t, db.Create(&models.Product{
		Name:     "Rudraksha Mala",
		Price:    50,
		Category: "Spiritual",
		IsActive: true,
	}).Error)

	var bodies []string
	for _, path := range []string{"/api/shop/items", "/api/features/shop/items"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "Rudraksha Mala", path)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestFeatureShopPurchaseAliasRequiresAuth(t *testing.T) {
	router, _ := setupRouterTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/features/shop/purchase", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
