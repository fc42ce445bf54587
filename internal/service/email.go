package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Templates holds the dynamic template ids this subsystem may select. The
// template content itself is owned by the notification platform.
type Templates struct {
	MembershipApproved string
	MembershipRejected string
	EnforcementWarning string
	AccountDisabled    string
}

type sendgridDispatcher struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridDispatcher returns a NotificationDispatcher backed by SendGrid
// dynamic templates.
func NewSendGridDispatcher(apiKey, fromEmail, fromName string) NotificationDispatcher {
	return &sendgridDispatcher{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendgridDispatcher) Send(ctx context.Context, toAddress, templateID string, params map[string]any) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", toAddress)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.SetTemplateID(templateID)

	personalization := mail.NewPersonalization()
	personalization.AddTos(recipient)
	for key, value := range params {
		personalization.SetDynamicTemplateData(key, value)
	}
	message.AddPersonalizations(personalization)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
