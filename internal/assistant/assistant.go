package assistant

import (
	"context"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	Apology            = "I'm sorry, I'm having trouble connecting to the travel grid. Try again in a second!"
	UnavailableSummary  = "Analysis unavailable."
)

// Service answers assistant requests and never fails the caller
type Service struct {
	completer Completer
	log       *logrus.Entry
}

func NewService(completer Completer) *Service {
	return &Service{completer: completer, log: logrus.WithField("component", "assistant")}
}

// Ask returns the completion, or the canned apology when the remote call fails
func (s *Service) Ask(ctx context.Context, req models.AssistantRequest) models.AssistantResponse {
	if s.completer == nil {
		return models.AssistantResponse{Text: Apology}
	}
	if req.Assess {
		a, err := s.completer.Assess(ctx, req.Prompt, req.Context)
		if err != nil {
			s.log.WithError(err).Warn("assessment failed")
			return models.AssistantResponse{Text: UnavailableSummary, Score: 0, Summary: UnavailableSummary}
		}
		return models.AssistantResponse{Text: a.Summary, Score: a.Score, Summary: a.Summary}
	}

	text, err := s.completer.Complete(ctx, req.Prompt, req.Context)
	if err != nil || text == "" {
		if err != nil {
			s.log.WithError(err).Warn("completion failed")
		}
		return models.AssistantResponse{Text: Apology}
	}
	return models.AssistantResponse{Text: text}
}
