package catalog

import (
	"strings"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

// Query filters the catalog. Empty fields match everything.
type Query struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// IsEmpty reports whether no field constrains the search
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Origin) == "" && strings.TrimSpace(q.Destination) == "" &&
		strings.TrimSpace(q.Date) == "" && strings.TrimSpace(q.Time) == ""
}

// Search returns the flights matching q in catalog order.
// No match yields an empty, non-nil slice.
func Search(flights []*models.Flight, q Query) []*models.Flight {
	origin := normalize(q.Origin)
	dest := normalize(q.Destination)
	date := strings.TrimSpace(q.Date)
	clock := strings.TrimSpace(q.Time)

	result := make([]*models.Flight, 0)
	for _, f := range flights {
		if !matchField(origin, f.Origin, f.OriginCode) || !matchField(dest, f.Destination, f.DestinationCode) {
			continue
		}
		if date != "" && f.DepartureDate != date {
			continue
		}
		if clock != "" && f.DepartureTime != clock {
			continue
		}
		result = append(result, f)
	}
	return result
}

// matchField compares a normalized query against a hub name or code.
// Containment covers both prefix and substring matches.
func matchField(q, name, code string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(normalize(name), q) || strings.Contains(normalize(code), q)
}

// normalize trims, lowercases and drops everything but letters and digits
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
