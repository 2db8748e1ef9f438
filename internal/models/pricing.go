package models

// PriceBreakdown is the fare computation for a prospective booking.
// Amounts are in the reference currency.
type PriceBreakdown struct {
	EffectiveBase  float64 `json:"effectiveBase"`
	AdultTotal     float64 `json:"adultTotal"`
	YoungTotal     float64 `json:"youngTotal"`
	ElderTotal     float64 `json:"elderTotal"`
	AgeOffer       float64 `json:"ageOffer"`
	Subtotal       float64 `json:"subtotal"`
	CateringTotal  float64 `json:"cateringTotal"`
	Taxes          float64 `json:"taxes"`
	Total          float64 `json:"total"`
	InnateDiscount float64 `json:"innateDiscount"`
	FlashDiscount  float64 `json:"flashDiscount"`
}

// QuoteRequest asks for a price preview
type QuoteRequest struct {
	Passengers PassengerCounts    `json:"passengers"`
	Catering   []SelectedCatering `json:"catering"`
	Currency   Currency           `json:"currency"`
}

// Quote is a price breakdown with its display rendering
type Quote struct {
	Breakdown PriceBreakdown    `json:"breakdown"`
	Currency  Currency          `json:"currency"`
	Display   map[string]string `json:"display"`
}
