package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablehouse/notify-svc/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var ErrNotConfigured = errors.New("email notifier is not configured")

// SESClient is the subset of *ses.Client used here.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailNotifier struct {
	Client    SESClient
	Sender    string
	Recipient string
	Location  *time.Location
}

func NewEmailNotifier(client SESClient, sender, recipient string, loc *time.Location) *EmailNotifier {
	return &EmailNotifier{Client: client, Sender: sender, Recipient: recipient, Location: loc}
}

func (n *EmailNotifier) NotifyNewOrder(ctx context.Context, order *domain.Order) error {
	if n.Sender == "" || n.Recipient == "" {
		return ErrNotConfigured
	}
	email, err := RenderStaffEmail(order, n.Location)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(n.Sender),
		Destination: &types.Destination{
			ToAddresses: []string{n.Recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(email.Subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(email.HTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(email.Text),
				},
			},
		},
	}

	if _, err := n.Client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
