package utils

import "time"

// Application constants
const (
	// Application name
	AppName = "AstroVeda Connect"

	// Default port
	DefaultPort = "8080"

	// JWT token expiration (24 hours)
	JWTExpiration = 24 * time.Hour

	// Minimum wallet balance required to start a paid session
	MinSessionBalance = 10.0

	// Free minutes granted on a user's first-ever session
	FreeTrialMinutes = 5.0

	// Per-minute rate of the synthetic AI astrologer
	AIAstrologerRate = 25.0

	// Sentinel id for the synthetic AI astrologer
	AIAstrologerRef = "ai-astrologer"

	// Platform's cut of every shop sale
	PlatformFeeRate = 0.20

	// Delay before an astrologer's share of a sale is settled
	SettlementDelay = 5 * 24 * time.Hour

	// Maximum file size for uploads (5MB)
	MaxFileSize = 5 * 1024 * 1024

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 50

	// Minimum password length
	MinPasswordLength = 8

	// Maximum password length
	MaxPasswordLength = 64

	// Minimum name length
	MinNameLength = 2

	// Maximum name length
	MaxNameLength = 50
)
