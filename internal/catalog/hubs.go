package catalog

import (
	"strings"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

// Hubs is the network served by the catalog, in generation order
var Hubs = []models.Hub{
	{Name: "Chennai", Code: "MAA"}, {Name: "Madurai", Code: "IXM"}, {Name: "Trichy", Code: "TRZ"}, {Name: "Coimbatore", Code: "CJB"},
	{Name: "Mumbai", Code: "BOM"}, {Name: "Pune", Code: "PNQ"}, {Name: "Nagpur", Code: "NAG"},
	{Name: "Bengaluru", Code: "BLR"}, {Name: "Mangalore", Code: "IXE"},
	{Name: "Hyderabad", Code: "HYD"}, {Name: "New Delhi", Code: "DEL"},
	{Name: "Kochi", Code: "COK"}, {Name: "Trivandrum", Code: "TRV"}, {Name: "Calicut", Code: "CCJ"},
	{Name: "Kolkata", Code: "CCU"}, {Name: "Ahmedabad", Code: "AMD"},
	{Name: "Lucknow", Code: "LKO"}, {Name: "Varanasi", Code: "VNS"},
	{Name: "Los Angeles", Code: "LAX"}, {Name: "San Francisco", Code: "SFO"}, {Name: "New York", Code: "JFK"},
	{Name: "Miami", Code: "MIA"}, {Name: "Orlando", Code: "MCO"}, {Name: "Dallas", Code: "DFW"},
	{Name: "Houston", Code: "IAH"}, {Name: "Chicago", Code: "ORD"}, {Name: "Seattle", Code: "SEA"},
	{Name: "Toronto", Code: "YYZ"}, {Name: "Vancouver", Code: "YVR"}, {Name: "Montreal", Code: "YUL"}, {Name: "Calgary", Code: "YYC"},
	{Name: "Sydney", Code: "SYD"}, {Name: "Melbourne", Code: "MEL"}, {Name: "Brisbane", Code: "BNE"}, {Name: "Perth", Code: "PER"},
	{Name: "London", Code: "LHR"}, {Name: "Edinburgh", Code: "EDI"}, {Name: "Glasgow", Code: "GLA"}, {Name: "Cardiff", Code: "CWL"}, {Name: "Belfast", Code: "BFS"},
	{Name: "Dubai", Code: "DXB"}, {Name: "Abu Dhabi", Code: "AUH"}, {Name: "Sharjah", Code: "SHJ"}, {Name: "Ras Al Khaimah", Code: "RKT"},
	{Name: "Singapore", Code: "SIN"},
}

// LookupHub finds a hub by exact, case-insensitive name
func LookupHub(name string) (models.Hub, bool) {
	name = strings.TrimSpace(name)
	for _, h := range Hubs {
		if strings.EqualFold(h.Name, name) {
			return h, true
		}
	}
	return models.Hub{}, false
}

// ValidateRoute checks that origin and destination are two different known hubs
func ValidateRoute(origin, destination string) error {
	o, ok := LookupHub(origin)
	if !ok {
		return models.NewValidationError("origin", "select a valid departure hub")
	}
	d, ok := LookupHub(destination)
	if !ok {
		return models.NewValidationError("destination", "select a valid arrival hub")
	}
	if o.Code == d.Code {
		return models.NewValidationError("destination", "departure and arrival hubs cannot be the same")
	}
	return nil
}
