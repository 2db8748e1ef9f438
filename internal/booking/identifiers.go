package booking

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Identifiers are the generated references of a confirmed booking
type Identifiers struct {
	BookingID     string `json:"bookingId"`
	TransactionID string `json:"transactionId"`
	Gate          string `json:"gate"`
}

// NewIdentifiers generates fresh booking, transaction and gate references
func NewIdentifiers() Identifiers {
	return Identifiers{
		BookingID:     "ELT-" + token(10),
		TransactionID: "TXN-" + token(12),
		Gate:          fmt.Sprintf("G-%d", rand.Intn(50)+1),
	}
}

func token(n int) string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:n]
}

// QRPayload is the ticket payload encoded on the boarding pass
func QRPayload(userID, flightID string) string {
	return fmt.Sprintf("TKT-%s-%s", userID, flightID)
}
