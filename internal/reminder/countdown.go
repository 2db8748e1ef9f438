package reminder

import (
	"fmt"
	"time"
)

// Urgency tiers of a departure label
const (
	UrgencyDeparted = "departed"
	UrgencyUrgent   = "urgent"
	UrgencySoon     = "soon"
	UrgencyUpcoming = "upcoming"
)

// Remaining returns the time left until departure, never negative
func Remaining(departure, now time.Time) time.Duration {
	d := departure.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// FormatCountdown renders remaining time as "Xh Ym Zs", or "Departed"
// once nothing remains
func FormatCountdown(remaining time.Duration) string {
	if remaining <= 0 {
		return "Departed"
	}
	total := int64(remaining / time.Second)
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}

// Label renders the dashboard departure label and its urgency
func Label(remaining time.Duration) (string, string) {
	if remaining <= 0 {
		return "Departed", UrgencyDeparted
	}
	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes), UrgencyUrgent
	case hours < 6:
		return fmt.Sprintf("%dh %dm", hours, minutes), UrgencySoon
	case hours < 24:
		return fmt.Sprintf("%dh", hours), UrgencyUpcoming
	}
	return fmt.Sprintf("%dd %dh", hours/24, hours%24), UrgencyUpcoming
}
