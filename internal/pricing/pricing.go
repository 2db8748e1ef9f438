package pricing

import (
	"fmt"
	"math"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

const (
	YouthDiscount = 0.20
	ElderDiscount = 0.15
	TaxRate       = 0.12

	PremiumUnitPrice  = 35.0
	StandardUnitPrice = 15.0
)

// MenuLookup resolves catering items by id
type MenuLookup interface {
	Item(id string) (models.CateringItem, bool)
}

// UnitPrice returns the per-unit price of a catering item
func UnitPrice(item models.CateringItem) float64 {
	if item.Premium {
		return PremiumUnitPrice
	}
	return StandardUnitPrice
}

// Quote computes the fare breakdown for a prospective booking.
// It has no side effects; callers recompute whenever passengers or
// catering change.
func Quote(flight *models.Flight, pax models.PassengerCounts, selected []models.SelectedCatering, menu MenuLookup) (models.PriceBreakdown, error) {
	if flight == nil {
		return models.PriceBreakdown{}, models.NewValidationError("flight", "flight is required")
	}
	if pax.Young < 0 || pax.Adult < 0 || pax.Elder < 0 {
		return models.PriceBreakdown{}, models.NewValidationError("passengers", "passenger counts cannot be negative")
	}
	if pax.Total() == 0 {
		return models.PriceBreakdown{}, models.NewValidationError("passengers", "at least one passenger is required")
	}

	effectiveBase := flight.BasePrice * (1 - flight.DiscountPercent/100)
	adultTotal := float64(pax.Adult) * effectiveBase
	youngTotal := float64(pax.Young) * effectiveBase * (1 - YouthDiscount)
	elderTotal := float64(pax.Elder) * effectiveBase * (1 - ElderDiscount)
	ageOffer := float64(pax.Young)*effectiveBase*YouthDiscount + float64(pax.Elder)*effectiveBase*ElderDiscount
	subtotal := adultTotal + youngTotal + elderTotal

	cateringTotal, err := CateringTotal(selected, menu)
	if err != nil {
		return models.PriceBreakdown{}, err
	}

	taxes := (subtotal + cateringTotal) * TaxRate
	innate := flight.BasePrice - effectiveBase

	return models.PriceBreakdown{
		EffectiveBase:  round2(effectiveBase),
		AdultTotal:     round2(adultTotal),
		YoungTotal:     round2(youngTotal),
		ElderTotal:     round2(elderTotal),
		AgeOffer:       round2(ageOffer),
		Subtotal:       round2(subtotal),
		CateringTotal:  round2(cateringTotal),
		Taxes:          round2(taxes),
		Total:          round2(subtotal + cateringTotal + taxes),
		InnateDiscount: round2(innate),
		FlashDiscount:  round2(innate * float64(pax.Total())),
	}, nil
}

// CateringTotal sums unit price times quantity over a selection
func CateringTotal(selected []models.SelectedCatering, menu MenuLookup) (float64, error) {
	var total float64
	for _, sc := range selected {
		if sc.Quantity <= 0 {
			return 0, models.NewValidationError("catering", fmt.Sprintf("quantity of %s must be positive", sc.ItemID))
		}
		if menu == nil {
			return 0, models.NewValidationError("catering", "no menu to price catering against")
		}
		item, ok := menu.Item(sc.ItemID)
		if !ok {
			return 0, models.NewValidationError("catering", fmt.Sprintf("unknown catering item %s", sc.ItemID))
		}
		total += UnitPrice(item) * float64(sc.Quantity)
	}
	return total, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
