package utils

import (
	"time"
)

// SessionDurationSeconds returns the elapsed whole seconds between start and end.
func SessionDurationSeconds(start, end time.Time) int {
	secs := int(end.Sub(start).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// ComputeSessionCost computes the cost of a session. Billable minutes are
// fractional (duration/60). On a free trial the first FreeTrialMinutes are
// not billed and only the excess is charged. Cost never goes below zero.
func ComputeSessionCost(durationSeconds int, ratePerMinute float64, isFreeTrial bool) float64 {
	minutes := float64(durationSeconds) / 60.0

	var cost float64
	if isFreeTrial {
		if minutes > FreeTrialMinutes {
			cost = (minutes - FreeTrialMinutes) * ratePerMinute
		}
	} else {
		cost = minutes * ratePerMinute
	}

	if cost < 0 {
		cost = 0
	}
	return cost
}

// SplitPurchaseAmount splits a sale total into the platform fee and the
// astrologer's earning. The two parts always sum back to the total exactly.
func SplitPurchaseAmount(total float64) (platformFee, astrologerEarning float64) {
	platformFee = total * PlatformFeeRate
	astrologerEarning = total - platformFee
	return platformFee, astrologerEarning
}
