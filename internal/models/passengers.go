package models

// PassengerCounts is the traveller breakdown of a booking
type PassengerCounts struct {
	Young int `json:"young" validate:"gte=0"`
	Adult int `json:"adult" validate:"gte=0"`
	Elder int `json:"elder" validate:"gte=0"`
}

// Total returns the number of travellers
func (p PassengerCounts) Total() int {
	return p.Young + p.Adult + p.Elder
}
