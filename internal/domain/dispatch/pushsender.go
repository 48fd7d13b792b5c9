package dispatch

import (
	"context"
	"fmt"

	"github.com/9ssi7/exponent"

	"cartrecovery/internal/apperr"
)

// PushSender delivers recovery messages as Expo push notifications, grounded
// on the teacher's ExpoAdapter (internal/notifications), adapted from
// booking/game event pushes to recovery-action templates.
type PushSender struct {
	client *exponent.Client
}

// NewPushSender wraps an existing Expo push client.
func NewPushSender(client *exponent.Client) *PushSender {
	return &PushSender{client: client}
}

func (p *PushSender) Send(ctx context.Context, msg Message) error {
	if msg.PushToken == "" {
		return apperr.ValidationErrorf("push sender: message has no push token")
	}

	t := exponent.Token(msg.PushToken)
	push := &exponent.Message{
		To:    []*exponent.Token{&t},
		Title: titleForTemplate(msg.Template),
		Body:  "Your cart is waiting for you",
		Data:  stringifyMetadata(msg.Metadata),
	}

	if _, err := p.client.PublishSingle(ctx, push); err != nil {
		return apperr.StoreUnavailablef(err, "publish recovery push notification")
	}
	return nil
}

// stringifyMetadata adapts Message.Metadata (map[string]any, shared with the
// other senders) to the map[string]string exponent.Message.Data expects.
func stringifyMetadata(meta map[string]any) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

func titleForTemplate(template string) string {
	switch template {
	case "discount_offer":
		return "A discount is waiting for you"
	case "free_shipping_offer":
		return "Free shipping, today only"
	case "retry_payment":
		return "Payment issue"
	default:
		return "Still thinking it over?"
	}
}
