package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/dmitrijs2005/calldash/internal/logging"
)

// FeedbackService records call outcomes.
type FeedbackService interface {
	// SubmitFeedback saves status and text for lead. When the status
	// notifies WhatsApp, a message goes to phone afterwards; notified
	// reports whether it was sent.
	SubmitFeedback(ctx context.Context, lead models.Lead, phone string, status models.Status, text string) (notified bool, err error)
	SendWhatsApp(ctx context.Context, leadID, phone string, status models.Status) error
}

type feedbackService struct {
	api      httpapi.Doer
	inflight *InFlight
	logger   logging.Logger
}

func NewFeedbackService(api httpapi.Doer, guard *InFlight, logger logging.Logger) FeedbackService {
	if guard == nil {
		guard = NewInFlight()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &feedbackService{api: api, inflight: guard, logger: logger}
}

// ValidateFeedback checks the two required fields. Nothing is sent when it
// fails.
func ValidateFeedback(status models.Status, text string) error {
	if strings.TrimSpace(string(status)) == "" {
		return ErrStatusRequired
	}
	if strings.TrimSpace(text) == "" {
		return ErrFeedbackRequired
	}
	return nil
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, lead models.Lead, phone string, status models.Status, text string) (bool, error) {
	if err := ValidateFeedback(status, text); err != nil {
		return false, err
	}

	notified := false
	err := s.inflight.Do("feedback:"+lead.ID, func() error {
		body := map[string]string{
			"id":       lead.ID,
			"status":   string(status),
			"feedback": strings.TrimSpace(text),
		}
		if err := s.api.Do(ctx, http.MethodPut, common.APIPrefix+"update-feedback", body, nil, nil); err != nil {
			s.logger.Warn(ctx, "feedback submit failed", "lead", lead.ID, "error", err)
			return fmt.Errorf("submit feedback: %w", err)
		}

		if !status.NotifiesWhatsApp() {
			return nil
		}
		if phone == "" {
			phone = lead.PhoneNumbers.Primary()
		}
		if err := s.sendWhatsApp(ctx, lead.ID, phone, status); err != nil {
			return fmt.Errorf("%w: %w", ErrNotifyFailed, err)
		}
		notified = true
		return nil
	})
	return notified, err
}

func (s *feedbackService) SendWhatsApp(ctx context.Context, leadID, phone string, status models.Status) error {
	return s.inflight.Do("whatsapp:"+leadID, func() error {
		return s.sendWhatsApp(ctx, leadID, phone, status)
	})
}

func (s *feedbackService) sendWhatsApp(ctx context.Context, leadID, phone string, status models.Status) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("send whatsapp: lead %s has no phone number", leadID)
	}
	body := map[string]string{
		"id":           leadID,
		"mobileNumber": phone,
		"status":       string(status),
	}
	if err := s.api.Do(ctx, http.MethodPost, common.APIPrefix+"send-whatsapp-message", body, nil, nil); err != nil {
		s.logger.Warn(ctx, "whatsapp send failed", "lead", leadID, "error", err)
		return fmt.Errorf("send whatsapp: %w", err)
	}
	return nil
}
