package booking

import (
	"fmt"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

// Step is a state of the booking confirmation flow
type Step string

const (
	StepSeats          Step = "seats"
	StepFoodPreference Step = "foodPreference"
	StepCatering       Step = "catering"
	StepPayment        Step = "payment"
	StepCard           Step = "card"
	StepProcessing     Step = "processing"
	StepConfirmed      Step = "confirmed"
	StepAbandoned      Step = "abandoned"
	StepFailed         Step = "failed"
)

// Terminal reports whether no further events are accepted
func (s Step) Terminal() bool {
	return s == StepConfirmed || s == StepAbandoned || s == StepFailed
}

// previous is the back-navigation target of each interactive step
var previous = map[Step]Step{
	StepFoodPreference: StepSeats,
	StepCatering:       StepFoodPreference,
	StepPayment:        StepCatering,
	StepCard:           StepPayment,
}

// Guard carries the facts transitions depend on
type Guard struct {
	SeatsComplete bool
	SeatsRequired int
	FoodType      models.FoodType
	PaymentMethod models.PaymentMethod
	CardComplete  bool
}

// TransitionError is an event that is not valid in the current step
type TransitionError struct {
	From  Step
	Event models.SessionEventType
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %s not allowed in step %s", e.Event, e.From)
}

// Next is the transition function of the booking flow. Events that edit
// the current step (seat toggles, catering changes) keep the step.
func Next(from Step, event models.SessionEventType, g Guard) (Step, error) {
	invalid := &TransitionError{From: from, Event: event}

	if event == models.EventBack {
		if prev, ok := previous[from]; ok {
			return prev, nil
		}
		return from, invalid
	}

	switch from {
	case StepSeats:
		switch event {
		case models.EventToggleSeat:
			return StepSeats, nil
		case models.EventConfirmSeats:
			if !g.SeatsComplete {
				return from, models.NewValidationError("seats", fmt.Sprintf("select exactly %d seats", g.SeatsRequired))
			}
			return StepFoodPreference, nil
		}

	case StepFoodPreference, StepCatering:
		switch event {
		case models.EventFoodPreference:
			if !g.FoodType.Valid() {
				return from, models.NewValidationError("foodType", "choose Veg or Non-Veg")
			}
			return StepCatering, nil
		case models.EventCatering:
			if from == StepCatering {
				return StepCatering, nil
			}
		case models.EventProceed:
			if from == StepCatering {
				return StepPayment, nil
			}
		}

	case StepPayment:
		if event == models.EventPaymentMethod {
			if !g.PaymentMethod.Valid() {
				return from, models.NewValidationError("paymentMethod", "unsupported payment method")
			}
			if g.PaymentMethod.RequiresCard() {
				return StepCard, nil
			}
			return StepProcessing, nil
		}

	case StepCard:
		if event == models.EventCard {
			if !g.CardComplete {
				return from, models.NewValidationError("card", "card number, holder, expiry and cvv are required")
			}
			return StepProcessing, nil
		}
	}

	return from, invalid
}
