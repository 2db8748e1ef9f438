package pricing

import (
	"math"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/dustin/go-humanize"
)

// DefaultINRRate converts the reference currency (USD) to INR
const DefaultINRRate = 83.0

// Converter applies the display currency after all arithmetic is done
type Converter struct {
	INRRate float64
}

// NewConverter creates a Converter; a non-positive rate uses the default
func NewConverter(rate float64) *Converter {
	if rate <= 0 {
		rate = DefaultINRRate
	}
	return &Converter{INRRate: rate}
}

// Convert returns amount expressed in c
func (c *Converter) Convert(amount float64, cur models.Currency) float64 {
	if cur == models.CurrencyINR {
		return amount * c.INRRate
	}
	return amount
}

// Format converts amount to c and renders it with no fraction digits
func (c *Converter) Format(amount float64, cur models.Currency) string {
	v := math.Round(c.Convert(amount, cur))
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + symbol(cur) + humanize.Comma(int64(v))
}

// Render formats every field of a breakdown for display
func (c *Converter) Render(b models.PriceBreakdown, cur models.Currency) map[string]string {
	return map[string]string{
		"effectiveBase":  c.Format(b.EffectiveBase, cur),
		"adultTotal":     c.Format(b.AdultTotal, cur),
		"youngTotal":     c.Format(b.YoungTotal, cur),
		"elderTotal":     c.Format(b.ElderTotal, cur),
		"ageOffer":       c.Format(b.AgeOffer, cur),
		"subtotal":       c.Format(b.Subtotal, cur),
		"cateringTotal":  c.Format(b.CateringTotal, cur),
		"taxes":          c.Format(b.Taxes, cur),
		"total":          c.Format(b.Total, cur),
		"innateDiscount": c.Format(b.InnateDiscount, cur),
		"flashDiscount":  c.Format(b.FlashDiscount, cur),
	}
}

func symbol(cur models.Currency) string {
	if cur == models.CurrencyINR {
		return "₹"
	}
	return "$"
}
