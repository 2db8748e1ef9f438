package booking

import (
	"testing"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name      string
		from      Step
		event     models.SessionEventType
		guard     Guard
		want      Step
		wantValid bool
		wantTrans bool
	}{
		{name: "toggle stays on seats", from: StepSeats, event: models.EventToggleSeat, want: StepSeats},
		{name: "seats complete", from: StepSeats, event: models.EventConfirmSeats, guard: Guard{SeatsComplete: true}, want: StepFoodPreference},
		{name: "seats incomplete", from: StepSeats, event: models.EventConfirmSeats, guard: Guard{SeatsRequired: 2}, want: StepSeats, wantValid: true},
		{name: "veg preference", from: StepFoodPreference, event: models.EventFoodPreference, guard: Guard{FoodType: models.FoodTypeVeg}, want: StepCatering},
		{name: "bad preference", from: StepFoodPreference, event: models.EventFoodPreference, guard: Guard{FoodType: "Vegan"}, want: StepFoodPreference, wantValid: true},
		{name: "change lens in catering", from: StepCatering, event: models.EventFoodPreference, guard: Guard{FoodType: models.FoodTypeNonVeg}, want: StepCatering},
		{name: "catering edit", from: StepCatering, event: models.EventCatering, want: StepCatering},
		{name: "catering before preference", from: StepFoodPreference, event: models.EventCatering, want: StepFoodPreference, wantTrans: true},
		{name: "catering to payment", from: StepCatering, event: models.EventProceed, want: StepPayment},
		{name: "card method", from: StepPayment, event: models.EventPaymentMethod, guard: Guard{PaymentMethod: models.PaymentCard}, want: StepCard},
		{name: "upi skips card", from: StepPayment, event: models.EventPaymentMethod, guard: Guard{PaymentMethod: models.PaymentUPI}, want: StepProcessing},
		{name: "wallet skips card", from: StepPayment, event: models.EventPaymentMethod, guard: Guard{PaymentMethod: models.PaymentWallet}, want: StepProcessing},
		{name: "unknown method", from: StepPayment, event: models.EventPaymentMethod, guard: Guard{PaymentMethod: "Cash"}, want: StepPayment, wantValid: true},
		{name: "card complete", from: StepCard, event: models.EventCard, guard: Guard{CardComplete: true}, want: StepProcessing},
		{name: "card incomplete", from: StepCard, event: models.EventCard, want: StepCard, wantValid: true},
		{name: "back from food", from: StepFoodPreference, event: models.EventBack, want: StepSeats},
		{name: "back from catering", from: StepCatering, event: models.EventBack, want: StepFoodPreference},
		{name: "back from payment", from: StepPayment, event: models.EventBack, want: StepCatering},
		{name: "back from card", from: StepCard, event: models.EventBack, want: StepPayment},
		{name: "no back from seats", from: StepSeats, event: models.EventBack, want: StepSeats, wantTrans: true},
		{name: "no back from processing", from: StepProcessing, event: models.EventBack, want: StepProcessing, wantTrans: true},
		{name: "no back from confirmed", from: StepConfirmed, event: models.EventBack, want: StepConfirmed, wantTrans: true},
		{name: "nothing after confirmed", from: StepConfirmed, event: models.EventToggleSeat, want: StepConfirmed, wantTrans: true},
		{name: "skip ahead rejected", from: StepSeats, event: models.EventProceed, want: StepSeats, wantTrans: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.event, tt.guard)
			assert.Equal(t, tt.want, got)
			switch {
			case tt.wantValid:
				assert.True(t, models.IsValidation(err))
			case tt.wantTrans:
				var terr *TransitionError
				assert.ErrorAs(t, err, &terr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestStep_Terminal(t *testing.T) {
	assert.True(t, StepConfirmed.Terminal())
	assert.True(t, StepAbandoned.Terminal())
	assert.True(t, StepFailed.Terminal())
	assert.False(t, StepProcessing.Terminal())
	assert.False(t, StepSeats.Terminal())
}
