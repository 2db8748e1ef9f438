package receipt

import (
	"context"
	"fmt"

	"github.com/Barathimeena/AirRoute-Hub/internal/allocator"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/pricing"
)

// Issuer renders and stores the receipt of a confirmed booking
type Issuer struct {
	store Store
	conv  *pricing.Converter
	menu  *allocator.Menu
}

func NewIssuer(store Store, conv *pricing.Converter, menu *allocator.Menu) *Issuer {
	return &Issuer{store: store, conv: conv, menu: menu}
}

// Issue returns the location of the stored PDF
func (i *Issuer) Issue(ctx context.Context, b models.Booking, f *models.Flight) (string, error) {
	data, err := Render(NewRecord(b, f, i.menu), i.conv)
	if err != nil {
		return "", err
	}
	location, err := i.store.Put(ctx, Key(b.ID), data)
	if err != nil {
		return "", fmt.Errorf("failed to store receipt for %s: %w", b.ID, err)
	}
	return location, nil
}

// Key is the artifact name of a booking's receipt
func Key(bookingID string) string {
	return "receipts/" + bookingID + ".pdf"
}
