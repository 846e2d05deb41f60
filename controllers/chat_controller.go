package controllers

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
)

var guruFallbackResponses = []string{
	"The stars align in your favor, but patience is required. Jupiter's influence suggests growth through wisdom.",
	"Your query resonates with the energy of the Moon. Emotional clarity will come soon. Meditate on your inner truth.",
	"Saturn's transit indicates a time of discipline. Hard work now will yield lasting rewards in the future.",
	"The cosmic alignment suggests a time of transformation. Embrace change as the universe guides you towards your true path.",
	"Mercury is strong in your chart right now. It is an excellent time for communication and learning new skills.",
	"Venus blesses you with harmony. Focus on relationships and creativity to unlock your full potential.",
	"Rahu's energy may bring confusion, but it is an illusion. Trust your intuition and stay grounded.",
	"The Sun shines bright on your destiny. Leadership and confidence will open new doors for you.",
	"Mars gives you the courage to overcome obstacles. Channel your energy wisely and avoid impulsive actions.",
	"Ketu asks you to let go of the past. Spiritual liberation comes from detachment and acceptance.",
}

const guruSystemPrompt = "You are an enlightened Vedic Astrologer AI Guru. " +
	"Your purpose is to provide guidance based on Vedic astrology, spirituality, and cosmic wisdom. " +
	"You must STRICTLY refuse to answer any questions that are not related to astrology, spirituality, mental well-being, or life guidance through a Vedic lens. " +
	"If a user asks about coding, math, politics, or other unrelated topics, gently guide them back to the stars. " +
	"Be wise, empathetic, and mystical but practical."

// ChatMessage is the payload for the AI guru chat
type ChatMessage struct {
	UserMessage  string `json:"user_message" binding:"required"`
	BirthDetails string `json:"birth_details"`
}

// ChatWithGuru answers a message via the LLM. A missing API key gets a
// fixed notice; an upstream failure gets a random canned response.
func ChatWithGuru(c *gin.Context) {
	utils.LogInfo("ChatWithGuru called")

	var msg ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		utils.BadRequest(c, "user_message is required", err.Error())
		return
	}

	systemPrompt := guruSystemPrompt
	if msg.BirthDetails != "" {
		systemPrompt += fmt.Sprintf(" User Birth Details: %s", msg.BirthDetails)
	}

	response, err := utils.LLMChat(systemPrompt, msg.UserMessage)
	if err != nil {
		if errors.Is(err, utils.ErrLLMNotConfigured) {
			utils.Success(c, "Chat response", gin.H{
				"response": "My inner eye (API Key) is not yet opened. Please configure the environment.",
			})
			return
		}
		utils.LogError("LLM chat failed, serving fallback: %v", err)
		utils.Success(c, "Chat response", gin.H{
			"response": fmt.Sprintf("AI Guru: %s", guruFallbackResponses[rand.Intn(len(guruFallbackResponses))]),
		})
		return
	}

	utils.Success(c, "Chat response", gin.H{"response": response})
}
