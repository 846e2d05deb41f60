package controllers

import (
	"fmt"
	"time"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
)

var zodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var insightDescriptions = map[string]string{
	"career":        "Your career prospects are looking bright. Hard work will pay off.",
	"mental-health": "Take some time for meditation and mindfulness today.",
	"love":          "Romance is in the air. Express your feelings.",
	"education":     "Good time for learning new skills.",
	"today":         "Today's energy supports new beginnings.",
}

// GetDailyPanchang returns the day's panchang elements
func GetDailyPanchang(c *gin.Context) {
	utils.LogInfo("GetDailyPanchang called")
	utils.Success(c, "Panchang retrieved successfully", gin.H{
		"date":      "Today",
		"tithi":     "Shukla Paksha Dashami",
		"nakshatra": "Rohini",
		"yog":       "Indra",
		"karan":     "Taitila",
	})
}

// GetDailyHoroscope returns a prediction for each of the twelve signs
func GetDailyHoroscope(c *gin.Context) {
	utils.LogInfo("GetDailyHoroscope called")
	horoscopes := make([]gin.H, 0, len(zodiacSigns))
	for _, sign := range zodiacSigns {
		horoscopes = append(horoscopes, gin.H{
			"sign":       sign,
			"prediction": fmt.Sprintf("Today is a great day for %s. Focus on your goals.", sign),
		})
	}
	utils.Success(c, "Horoscope retrieved successfully", horoscopes)
}

// GetNewsFeed returns the latest published articles
func GetNewsFeed(c *gin.Context) {
	utils.LogInfo("GetNewsFeed called")

	var articles []models.News
	if err := config.DB.Order("created_at DESC").Limit(20).Find(&articles).Error; err != nil {
		utils.LogError("Failed to fetch news feed: %v", err)
		utils.InternalServerError(c, "Failed to fetch news", err.Error())
		return
	}

	utils.Success(c, "News retrieved successfully", articles)
}

// GetAvailableReports lists the report catalog
func GetAvailableReports(c *gin.Context) {
	utils.LogInfo("GetAvailableReports called")
	utils.Success(c, "Reports retrieved successfully", []gin.H{
		{"id": "brihat_kundli", "title": "Brihat Kundli", "description": "Detailed life report"},
		{"id": "raj_yog", "title": "Raj Yog Report", "description": "Check for royal yoga in your chart"},
		{"id": "year_book", "title": "Year Book", "description": "Annual predictions"},
		{"id": "horoscope_2026", "title": "Horoscope 2026", "description": "Future insights for 2026"},
	})
}

// GetInsights returns a short insight for a category
func GetInsights(c *gin.Context) {
	category := c.Param("category")
	utils.LogInfo("GetInsights called for category %s", category)

	insight, ok := insightDescriptions[category]
	if !ok {
		insight = "General positive vibes for you."
	}
	utils.Success(c, "Insight retrieved successfully", gin.H{
		"category": category,
		"insight":  insight,
	})
}

// GetTodayInsights returns the full daily insight bundle. The LLM draft is
// used when it parses; anything else falls back to curated content.
func GetTodayInsights(c *gin.Context) {
	utils.LogInfo("GetTodayInsights called")

	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`Generate today's astrological insights for %s. Return JSON with:
{
    "cosmic_energy": {"level": "High/Medium/Low", "description": "...", "dominant_planet": "..."},
    "daily_prediction": {"overall": "...", "love": "...", "career": "...", "health": "...", "finance": "..."},
    "lucky_elements": {"number": 1-9, "color": "...", "direction": "..."},
    "do_today": ["...", "..."],
    "avoid_today": ["...", "..."],
    "mantra_of_day": "...",
    "spiritual_advice": "..."
}`, today)

	var insights map[string]interface{}
	if err := utils.LLMChatJSON("You are a Vedic astrology content generator.", prompt, &insights); err != nil {
		utils.LogDebug("LLM insights unavailable, serving fallback: %v", err)
		utils.Success(c, "Today's insights retrieved successfully", fallbackTodayInsights(today))
		return
	}

	insights["date"] = today
	if _, ok := insights["planetary_transits"]; !ok {
		insights["planetary_transits"] = []gin.H{
			{"planet": "Moon", "sign": "Leo", "effect": "Boosts confidence"},
		}
	}
	utils.Success(c, "Today's insights retrieved successfully", insights)
}

func fallbackTodayInsights(date string) gin.H {
	return gin.H{
		"date": date,
		"cosmic_energy": gin.H{
			"level":           "High",
			"description":     "Strong planetary alignments favor new beginnings and important decisions today.",
			"dominant_planet": "Jupiter",
			"energy_color":    "Golden Yellow",
		},
		"daily_prediction": gin.H{
			"overall": "Today brings opportunities for growth and positive changes. Trust your intuition.",
			"love":    "Express your feelings openly. Single? Someone special may enter your life.",
			"career":  "Excellent day for presentations, meetings, and career advancement.",
			"health":  "Energy levels are high. Good time for physical activities and wellness routines.",
			"finance": "Favorable for investments and financial planning. Avoid impulsive purchases.",
		},
		"lucky_elements": gin.H{
			"number":    7,
			"color":     "Golden Yellow",
			"direction": "Northeast",
			"time":      "10:00 AM - 12:00 PM",
			"gemstone":  "Yellow Sapphire",
		},
		"planetary_transits": []gin.H{
			{"planet": "Moon", "sign": "Leo", "effect": "Boosts confidence and leadership qualities"},
			{"planet": "Mercury", "sign": "Virgo", "effect": "Enhances communication and analytical thinking"},
			{"planet": "Venus", "sign": "Libra", "effect": "Brings harmony in relationships"},
		},
		"do_today": []string{
			"Start new projects or ventures",
			"Have important conversations",
			"Practice gratitude and meditation",
			"Wear yellow or golden colors",
			"Donate to charity",
		},
		"avoid_today": []string{
			"Making hasty decisions after 6 PM",
			"Lending money to others",
			"Starting arguments or conflicts",
			"Wearing black or dark colors",
			"Traveling towards the South",
		},
		"mantra_of_day":    "Om Gam Ganapataye Namaha",
		"spiritual_advice": "Focus on your goals with determination. The universe is aligning to support your dreams.",
	}
}

// MatchingRequest carries birth details for both partners
type MatchingRequest struct {
	BoyDetails  map[string]interface{} `json:"boy_details" binding:"required"`
	GirlDetails map[string]interface{} `json:"girl_details" binding:"required"`
}

// CheckMatching runs a Guna Milan compatibility check
func CheckMatching(c *gin.Context) {
	utils.LogInfo("CheckMatching called")

	var req MatchingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "boy_details and girl_details are required", err.Error())
		return
	}

	utils.Success(c, "Matching computed successfully", gin.H{
		"score":   28,
		"total":   36,
		"status":  "Good Match",
		"details": "Guna Milan shows high compatibility.",
	})
}
