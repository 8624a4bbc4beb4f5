package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/client/services"
)

const queueActions = "(f)eedback, (s)kip, (a)ssign, (q)uit"

// Queue works the tag queue: show the head lead, act on it, fetch the next.
// There is no local cursor; every fetch asks the server again.
func (a *App) Queue(ctx context.Context, tagName string) error {
	tag, err := models.ParseTag(tagName)
	if err != nil {
		a.toast(err, "Unknown queue.")
		return err
	}

	lead, err := a.nextLead(ctx, tag)
	for lead != nil && err == nil {
		a.println(renderLeadCard(*lead))

		action, rerr := getSimpleText(a.reader, queueActions, a.out)
		if rerr != nil {
			return rerr
		}

		switch strings.ToLower(action) {
		case "f", "feedback":
			if saved, _ := a.recordFeedback(ctx, *lead); saved {
				lead, err = a.nextLead(ctx, tag)
			}

		case "s", "skip", "n", "next":
			prev := lead.ID
			lead, err = a.nextLead(ctx, tag)
			if lead != nil && lead.ID == prev {
				a.println("The server has no other pending lead for this filter.")
			}

		case "a", "assign":
			_ = a.assignLead(ctx, lead.ID)

		case "q", "quit", "":
			return nil

		default:
			a.println("Unknown action:", action)
		}
	}
	return err
}

// nextLead fetches the queue head. An empty queue is reported and returns
// (nil, nil).
func (a *App) nextLead(ctx context.Context, tag models.Tag) (*models.Lead, error) {
	lead, err := a.leads.NextLead(ctx, tag, a.filter)
	if errors.Is(err, services.ErrNoLeads) {
		a.println("No pending leads in the " + string(tag) + " queue.")
		return nil, nil
	}
	if err != nil {
		a.toast(err, "Could not load the next lead.")
		return nil, err
	}
	return lead, nil
}

// recordFeedback runs validation, submit and the optional WhatsApp
// follow-up. saved reports whether the server stored the feedback.
func (a *App) recordFeedback(ctx context.Context, lead models.Lead) (saved bool, err error) {
	status, err := a.pickStatus()
	if err != nil {
		return false, err
	}
	text, err := getSimpleText(a.reader, "Feedback", a.out)
	if err != nil {
		return false, err
	}

	if err := services.ValidateFeedback(status, text); err != nil {
		a.toast(err, "Status and feedback are required.")
		return false, err
	}

	phone := ""
	if status.NotifiesWhatsApp() {
		phone, err = a.choosePhone(lead)
		if err != nil {
			return false, err
		}
	}

	notified, err := a.feedback.SubmitFeedback(ctx, lead, phone, status, text)
	switch {
	case errors.Is(err, services.ErrNotifyFailed):
		a.toast(err, "Feedback saved, but the WhatsApp message failed.")
		return true, nil
	case err != nil:
		a.toast(err, "Could not save feedback.")
		return false, err
	}

	msg := "Feedback saved."
	if notified {
		msg = "Feedback saved, WhatsApp sent to " + phone + "."
		if phone == "" {
			msg = "Feedback saved, WhatsApp sent."
		}
	}
	a.println(renderOK(msg))
	return true, nil
}

func (a *App) pickStatus() (models.Status, error) {
	options := make([]string, len(models.Statuses))
	for i, st := range models.Statuses {
		options[i] = string(st)
	}
	i, err := getChoice(a.reader, "Call outcome", options, a.out)
	if err != nil || i < 0 {
		return "", err
	}
	return models.Statuses[i], nil
}

// choosePhone selects the number to message. A single number is used
// without asking.
func (a *App) choosePhone(lead models.Lead) (string, error) {
	switch len(lead.PhoneNumbers) {
	case 0:
		return "", nil
	case 1:
		return lead.PhoneNumbers[0], nil
	}
	i, err := getChoice(a.reader, "Send WhatsApp to", lead.PhoneNumbers, a.out)
	if err != nil {
		return "", err
	}
	if i < 0 {
		return lead.PhoneNumbers.Primary(), nil
	}
	return lead.PhoneNumbers[i], nil
}
