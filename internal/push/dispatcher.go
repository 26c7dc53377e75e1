package push

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"
)

// MulticastLimit is the FCM batch cap. SendMulticast silently drops tokens
// beyond it; callers that need full coverage must chunk.
const MulticastLimit = 500

// Notification is the provider-agnostic push payload.
type Notification struct {
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

// Result reports a single-token send. ShouldInvalidateToken signals a
// permanently invalid/unregistered token; the caller owns clearing the stored
// device token in that case.
type Result struct {
	Delivered             bool
	ShouldInvalidateToken bool
}

// MulticastResult reports a batch send.
type MulticastResult struct {
	SuccessCount int
	FailureCount int
}

// Sender is the dispatch capability producers depend on.
type Sender interface {
	Send(ctx context.Context, token string, n Notification) Result
	SendMulticast(ctx context.Context, tokens []string, n Notification) MulticastResult
}

// Dispatcher sends best-effort push notifications through Firebase Cloud
// Messaging. A nil messaging client means push is not configured for this
// deployment; every send then returns a zero result instead of erroring, so
// callers never special-case that state.
type Dispatcher struct {
	client *messaging.Client
}

func NewDispatcher(client *messaging.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// Send attempts delivery to a single device token. Failures are non-fatal and
// never retried.
func (d *Dispatcher) Send(ctx context.Context, token string, n Notification) Result {
	if d.client == nil || token == "" {
		return Result{}
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title:    n.Title,
			Body:     n.Body,
			ImageURL: n.ImageURL,
		},
		Data: n.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:   "center_notifications",
				Icon:        "ic_notification",
				Color:       "#00D4FF",
				Sound:       "default",
				Tag:         n.Data["type"],
				ClickAction: "FLUTTER_NOTIFICATION_CLICK",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:            "default",
					Badge:            intPtr(1),
					ContentAvailable: true,
				},
			},
		},
	}

	if _, err := d.client.Send(ctx, msg); err != nil {
		if messaging.IsUnregistered(err) {
			log.Printf("push: token invalid or expired")
			return Result{ShouldInvalidateToken: true}
		}
		log.Printf("push: send failed: %v", err)
		return Result{}
	}
	return Result{Delivered: true}
}

// SendMulticast attempts delivery to many tokens in one batch. Tokens beyond
// MulticastLimit are dropped from this call.
func (d *Dispatcher) SendMulticast(ctx context.Context, tokens []string, n Notification) MulticastResult {
	if d.client == nil || len(tokens) == 0 {
		return MulticastResult{}
	}
	if len(tokens) > MulticastLimit {
		tokens = tokens[:MulticastLimit]
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "center_notifications",
				Icon:      "ic_notification",
				Color:     "#00D4FF",
				Sound:     "default",
			},
		},
	}

	resp, err := d.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		log.Printf("push: multicast failed: %v", err)
		return MulticastResult{FailureCount: len(tokens)}
	}
	log.Printf("push: multicast delivered %d/%d", resp.SuccessCount, len(tokens))
	return MulticastResult{SuccessCount: resp.SuccessCount, FailureCount: resp.FailureCount}
}

// StringifyData converts notification data to the string map FCM requires.
func StringifyData(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

func intPtr(v int) *int { return &v }
