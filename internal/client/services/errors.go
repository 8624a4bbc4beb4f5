package services

import "errors"

var (
	ErrStatusRequired   = errors.New("status is required")
	ErrFeedbackRequired = errors.New("feedback is required")
	ErrNoLeads          = errors.New("no pending leads")
	ErrInFlight         = errors.New("request already in progress")
	ErrUnknownCategory  = errors.New("unknown category")
	// ErrNotifyFailed is returned when feedback was saved but the WhatsApp
	// follow-up failed.
	ErrNotifyFailed = errors.New("whatsapp notification failed")
)
