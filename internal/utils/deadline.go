package utils

import (
	"fmt"
	"time"
)

// DefaultUrgencyThreshold is the remaining time below which a pending
// reschedule request is flagged urgent in client UIs.
const DefaultUrgencyThreshold = time.Hour

// Countdown is the display-ready remaining time until a response deadline.
type Countdown struct {
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Formatted string `json:"formatted"`
	IsExpired bool   `json:"is_expired"`
	Urgent    bool   `json:"urgent"`
}

// TimeUntilDeadline computes the countdown from now to deadline.
// It is a pure function of the two timestamps: once now >= deadline the
// result reports IsExpired with zero remaining time, never a negative value.
// Urgent is derived from the same remaining duration (under threshold and
// not yet expired), so the urgency flag can never drift from the countdown.
func TimeUntilDeadline(now, deadline time.Time, urgencyThreshold time.Duration) Countdown {
	if urgencyThreshold <= 0 {
		urgencyThreshold = DefaultUrgencyThreshold
	}

	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return Countdown{
			Hours:     0,
			Minutes:   0,
			Formatted: "Expired",
			IsExpired: true,
		}
	}

	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)

	var formatted string
	if hours > 0 {
		formatted = fmt.Sprintf("%dh %dm remaining", hours, minutes)
	} else {
		formatted = fmt.Sprintf("%dm remaining", minutes)
	}

	return Countdown{
		Hours:     hours,
		Minutes:   minutes,
		Formatted: formatted,
		IsExpired: false,
		Urgent:    remaining < urgencyThreshold,
	}
}

// ResponseDeadline computes the hard response cutoff for a reschedule
// proposal: the original session time minus the lead window.
func ResponseDeadline(originalScheduledAt time.Time, leadWindow time.Duration) time.Time {
	return originalScheduledAt.Add(-leadWindow)
}
