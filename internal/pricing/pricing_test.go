package pricing

import (
	"testing"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMenu map[string]models.CateringItem

func (m stubMenu) Item(id string) (models.CateringItem, bool) {
	item, ok := m[id]
	return item, ok
}

var menu = stubMenu{
	"nv1": {ID: "nv1", Category: models.CategoryFood, FoodType: models.FoodTypeNonVeg, Premium: true, Stock: 15},
	"d2":  {ID: "d2", Category: models.CategoryDrink, Stock: 60},
}

func TestQuote_AgeTiersAndFlashDiscount(t *testing.T) {
	flight := &models.Flight{ID: "FL-1", BasePrice: 200, DiscountPercent: 20}
	pax := models.PassengerCounts{Young: 1, Adult: 2, Elder: 1}

	b, err := Quote(flight, pax, nil, menu)
	require.NoError(t, err)

	assert.InDelta(t, 160, b.EffectiveBase, 0.001)
	assert.InDelta(t, 320, b.AdultTotal, 0.001)
	assert.InDelta(t, 128, b.YoungTotal, 0.001)
	assert.InDelta(t, 136, b.ElderTotal, 0.001)
	assert.InDelta(t, 584, b.Subtotal, 0.001)
	assert.InDelta(t, 56, b.AgeOffer, 0.001)
	assert.InDelta(t, 0, b.CateringTotal, 0.001)
	assert.InDelta(t, 70.08, b.Taxes, 0.001)
	assert.InDelta(t, 654.08, b.Total, 0.001)
	assert.InDelta(t, 40, b.InnateDiscount, 0.001)
	assert.InDelta(t, 160, b.FlashDiscount, 0.001)
}

func TestQuote_SingleAdult(t *testing.T) {
	flight := &models.Flight{ID: "FL-2", BasePrice: 150}

	b, err := Quote(flight, models.PassengerCounts{Adult: 1}, nil, menu)
	require.NoError(t, err)

	assert.InDelta(t, 150, b.Subtotal, 0.001)
	assert.InDelta(t, 18, b.Taxes, 0.001)
	assert.InDelta(t, 168, b.Total, 0.001)
	assert.Zero(t, b.InnateDiscount)
	assert.Zero(t, b.AgeOffer)
}

func TestQuote_Catering(t *testing.T) {
	flight := &models.Flight{ID: "FL-3", BasePrice: 100}
	selected := []models.SelectedCatering{
		{ItemID: "nv1", Quantity: 2},
		{ItemID: "d2", Quantity: 1},
	}

	b, err := Quote(flight, models.PassengerCounts{Adult: 1}, selected, menu)
	require.NoError(t, err)

	assert.InDelta(t, 85, b.CateringTotal, 0.001)
	assert.InDelta(t, 22.2, b.Taxes, 0.001)
	assert.InDelta(t, 207.2, b.Total, 0.001)
}

func TestQuote_Errors(t *testing.T) {
	flight := &models.Flight{ID: "FL-4", BasePrice: 100}

	tests := []struct {
		name     string
		flight   *models.Flight
		pax      models.PassengerCounts
		catering []models.SelectedCatering
	}{
		{name: "no flight", pax: models.PassengerCounts{Adult: 1}},
		{name: "no passengers", flight: flight},
		{name: "negative passengers", flight: flight, pax: models.PassengerCounts{Adult: 2, Young: -1}},
		{name: "unknown item", flight: flight, pax: models.PassengerCounts{Adult: 1},
			catering: []models.SelectedCatering{{ItemID: "zz", Quantity: 1}}},
		{name: "zero quantity", flight: flight, pax: models.PassengerCounts{Adult: 1},
			catering: []models.SelectedCatering{{ItemID: "d2", Quantity: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Quote(tt.flight, tt.pax, tt.catering, menu)
			assert.True(t, models.IsValidation(err))
		})
	}
}

func TestQuote_Pure(t *testing.T) {
	flight := &models.Flight{ID: "FL-5", BasePrice: 300, DiscountPercent: 10, PassengersBooked: 7}
	selected := []models.SelectedCatering{{ItemID: "d2", Quantity: 3}}

	first, err := Quote(flight, models.PassengerCounts{Adult: 2}, selected, menu)
	require.NoError(t, err)
	second, err := Quote(flight, models.PassengerCounts{Adult: 2}, selected, menu)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 7, flight.PassengersBooked)
	assert.Equal(t, 3, selected[0].Quantity)
}

func TestConverter_Format(t *testing.T) {
	c := NewConverter(0)

	assert.Equal(t, "$654", c.Format(654.08, models.CurrencyUSD))
	assert.Equal(t, "$1,235", c.Format(1234.5, models.CurrencyUSD))
	assert.Equal(t, "₹54,289", c.Format(654.08, models.CurrencyINR))
	assert.InDelta(t, 12450, c.Convert(150, models.CurrencyINR), 0.001)
	assert.InDelta(t, 150, c.Convert(150, models.CurrencyUSD), 0.001)
}

func TestConverter_Render(t *testing.T) {
	c := NewConverter(83)
	display := c.Render(models.PriceBreakdown{Subtotal: 150, Taxes: 18, Total: 168}, models.CurrencyUSD)

	assert.Equal(t, "$150", display["subtotal"])
	assert.Equal(t, "$18", display["taxes"])
	assert.Equal(t, "$168", display["total"])
}
