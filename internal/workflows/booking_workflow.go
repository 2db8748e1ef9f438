package workflows

import (
	"errors"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/activities"
	"github.com/Barathimeena/AirRoute-Hub/internal/allocator"
	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// DefaultProcessingDelay is the simulated payment processing latency
	DefaultProcessingDelay = 2 * time.Second
	// DefaultSessionTimeout abandons a session idle for this long
	DefaultSessionTimeout = 30 * time.Minute
	// maxIDDraws bounds how often a taken booking id is redrawn
	maxIDDraws = 3
)

// Activity names as registered on the worker
const (
	ActivityConfirmBooking   = "ConfirmBooking"
	ActivityIssueReceipt     = "IssueReceipt"
	ActivityScheduleReminder = "ScheduleReminder"
)

// sessionState is what the get_state query reports besides the session
type sessionState struct {
	session   *booking.Session
	lastError string
	revision  int
	updatedAt time.Time
}

func (s *sessionState) touch(ctx workflow.Context, err error) {
	s.revision++
	s.updatedAt = workflow.Now(ctx)
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
}

func (s *sessionState) snapshot() booking.Snapshot {
	snap := s.session.Snapshot()
	snap.LastError = s.lastError
	snap.Revision = s.revision
	snap.UpdatedAt = s.updatedAt
	return snap
}

// BookingWorkflow hosts one booking session: it applies booking_event
// signals to the session until payment is chosen, waits out the
// processing delay, then commits the booking exactly once.
func BookingWorkflow(ctx workflow.Context, input models.BookingSessionInput) (*models.SessionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Booking session started", "sessionId", input.SessionID, "flightId", input.Flight.ID)

	if input.ProcessingDelay <= 0 {
		input.ProcessingDelay = DefaultProcessingDelay
	}
	if input.SessionTimeout <= 0 {
		input.SessionTimeout = DefaultSessionTimeout
	}

	session, err := booking.NewSession(input, allocator.DefaultMenu())
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidSession", err)
	}
	state := &sessionState{session: session, updatedAt: workflow.Now(ctx)}

	if err := workflow.SetQueryHandler(ctx, models.QueryGetState, func() (booking.Snapshot, error) {
		return state.snapshot(), nil
	}); err != nil {
		return nil, err
	}

	eventsCh := workflow.GetSignalChannel(ctx, models.SignalBookingEvent)
	abandonCh := workflow.GetSignalChannel(ctx, models.SignalAbandon)

	for !session.Step().Terminal() {
		if session.Step() == booking.StepProcessing {
			if !awaitProcessing(ctx, input.ProcessingDelay, state, eventsCh, abandonCh) {
				session.Abandon()
				state.touch(ctx, nil)
				logger.Info("Session abandoned during processing", "sessionId", input.SessionID)
				break
			}
			commit(ctx, state)
			continue
		}

		idleCtx, cancelIdle := workflow.WithCancel(ctx)
		selector := workflow.NewSelector(ctx)

		selector.AddReceive(eventsCh, func(c workflow.ReceiveChannel, more bool) {
			var ev models.SessionEvent
			c.Receive(ctx, &ev)
			_, err := session.Apply(ev)
			if err != nil {
				logger.Info("Session event rejected", "sessionId", input.SessionID, "event", ev.Type, "error", err)
			}
			state.touch(ctx, err)
		})

		selector.AddReceive(abandonCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			session.Abandon()
			state.touch(ctx, nil)
			logger.Info("Session abandoned", "sessionId", input.SessionID)
		})

		selector.AddFuture(workflow.NewTimer(idleCtx, input.SessionTimeout), func(f workflow.Future) {
			if err := f.Get(ctx, nil); err != nil {
				return
			}
			session.Abandon()
			state.touch(ctx, nil)
			logger.Info("Session timed out", "sessionId", input.SessionID)
		})

		selector.Select(ctx)
		cancelIdle()
	}

	snap := state.snapshot()
	logger.Info("Booking session finished", "sessionId", input.SessionID, "step", snap.Step)
	return &models.SessionResult{
		SessionID:     input.SessionID,
		Step:          string(snap.Step),
		Booking:       snap.Booking,
		FailureReason: snap.FailureReason,
	}, nil
}

// awaitProcessing waits for the processing delay. Events arriving in the
// meantime are rejected. It returns false if the session was abandoned,
// in which case the delay timer is cancelled and nothing is committed.
func awaitProcessing(ctx workflow.Context, delay time.Duration, state *sessionState, eventsCh, abandonCh workflow.ReceiveChannel) bool {
	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	timer := workflow.NewTimer(timerCtx, delay)

	elapsed, abandoned := false, false
	for !elapsed && !abandoned {
		selector := workflow.NewSelector(ctx)
		selector.AddFuture(timer, func(f workflow.Future) {
			elapsed = true
		})
		selector.AddReceive(abandonCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			abandoned = true
		})
		selector.AddReceive(eventsCh, func(c workflow.ReceiveChannel, more bool) {
			var ev models.SessionEvent
			c.Receive(ctx, &ev)
			state.touch(ctx, &booking.TransitionError{From: booking.StepProcessing, Event: ev.Type})
		})
		selector.Select(ctx)
	}
	if abandoned {
		cancelTimer()
	}
	return !abandoned
}

// commit finalizes the session and runs the confirmation activity, then
// the best-effort follow-ups
func commit(ctx workflow.Context, state *sessionState) {
	logger := workflow.GetLogger(ctx)
	session := state.session

	ids, err := drawIdentifiers(ctx)
	if err != nil {
		session.Fail("could not allocate booking identifiers")
		state.touch(ctx, err)
		return
	}
	draft, err := session.Finalize(ids, workflow.Now(ctx))
	if err != nil {
		session.Fail(err.Error())
		state.touch(ctx, err)
		return
	}

	confirmCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	})
	var result models.ConfirmBookingResult
	for draw := 1; ; draw++ {
		err = workflow.ExecuteActivity(confirmCtx, ActivityConfirmBooking, models.ConfirmBookingInput{Booking: *draft}).Get(ctx, &result)
		if err == nil || draw >= maxIDDraws || !idTaken(err) {
			break
		}
		logger.Warn("Booking id taken, drawing a new one", "bookingId", draft.ID)
		if ids, err = drawIdentifiers(ctx); err != nil {
			break
		}
		reissued, rerr := session.Reissue(ids)
		if rerr != nil {
			err = rerr
			break
		}
		draft = reissued
	}
	if err != nil {
		reason := "booking could not be saved, please try again"
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) && appErr.NonRetryable() {
			reason = appErr.Message()
		}
		logger.Error("Booking confirmation failed", "bookingId", draft.ID, "error", err)
		session.Fail(reason)
		state.touch(ctx, err)
		return
	}
	session.Confirm(result.Booking)
	state.touch(ctx, nil)
	logger.Info("Booking confirmed", "bookingId", result.Booking.ID)

	followUpCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})
	input := models.BookingActivityInput{Booking: result.Booking}
	receiptF := workflow.ExecuteActivity(followUpCtx, ActivityIssueReceipt, input)
	reminderF := workflow.ExecuteActivity(followUpCtx, ActivityScheduleReminder, input)
	if err := receiptF.Get(ctx, nil); err != nil {
		logger.Warn("Receipt not issued", "bookingId", result.Booking.ID, "error", err)
	}
	if err := reminderF.Get(ctx, nil); err != nil {
		logger.Warn("Reminder not scheduled", "bookingId", result.Booking.ID, "error", err)
	}
}

func drawIdentifiers(ctx workflow.Context) (booking.Identifiers, error) {
	var ids booking.Identifiers
	err := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return booking.NewIdentifiers()
	}).Get(&ids)
	return ids, err
}

func idTaken(err error) bool {
	var appErr *temporal.ApplicationError
	return errors.As(err, &appErr) && appErr.Type() == activities.ErrTypeIDTaken
}
