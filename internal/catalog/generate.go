package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

// Airlines operating the generated schedule
var Airlines = []string{
	"Air India", "IndiGo", "Emirates", "Singapore Airlines", "Delta Air Lines",
	"Qantas", "Air Canada", "British Airways", "Qatar Airways", "Lufthansa",
}

const (
	slotsPerRoute   = 3
	firstFlightNo   = 3000
	generatedSeats  = 200
	flashDealLabel  = "Flash Deal"
	flashDealPct    = 20
	scheduleHorizon = 30
)

// Generate builds the deterministic startup catalog: every ordered pair of
// distinct hubs gets three daily slots, dated forward from start.
func Generate(start time.Time) []*models.Flight {
	flights := make([]*models.Flight, 0, len(Hubs)*(len(Hubs)-1)*slotsPerRoute)
	idx := 0
	for _, origin := range Hubs {
		for _, dest := range Hubs {
			if origin.Code == dest.Code {
				continue
			}
			for slot := 0; slot < slotsPerRoute; slot++ {
				flights = append(flights, generated(idx, slot, origin, dest, start))
				idx++
			}
		}
	}
	return flights
}

func generated(idx, slot int, origin, dest models.Hub, start time.Time) *models.Flight {
	airline := Airlines[idx%len(Airlines)]
	f := &models.Flight{
		ID:               fmt.Sprintf("%s-%d", strings.ToUpper(airline[:2]), firstFlightNo+idx),
		Airline:          airline,
		Origin:           origin.Name,
		OriginCode:       origin.Code,
		Destination:      dest.Name,
		DestinationCode:  dest.Code,
		DepartureDate:    start.AddDate(0, 0, idx%scheduleHorizon).Format(models.DateLayout),
		DepartureTime:    fmt.Sprintf("%02d:%02d", (slot*8)%24, slot*20),
		ArrivalTime:      fmt.Sprintf("%02d:45", (slot*8+4)%24),
		Duration:         fmt.Sprintf("%dh %dm", 3+idx%12, (idx%4)*15),
		Class:            models.FlightClassEconomy,
		BasePrice:        float64(150 + (idx%100)*10),
		TotalSeats:       generatedSeats,
		PassengersBooked: 50 + idx%140,
	}
	if idx%10 == 0 {
		f.Stops = 1
	}
	switch {
	case idx%12 == 0:
		f.Class = models.FlightClassFirst
	case idx%6 == 0:
		f.Class = models.FlightClassBusiness
	}
	if idx%20 == 0 {
		f.DiscountPercent = flashDealPct
		f.DiscountLabel = flashDealLabel
	}
	return f
}
