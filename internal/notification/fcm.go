package notification

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
)

// messagingClient is the subset of *messaging.Client used here.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

// FCMChannel pushes notifications to FCM topics. Admin devices subscribe to
// the admin topic when they register.
type FCMChannel struct {
	client messagingClient
	log    zerolog.Logger
}

// NewFCMChannel wraps client, which may be nil when Firebase is not
// configured; sends then fail with ErrNotConfigured.
func NewFCMChannel(client *messaging.Client, log zerolog.Logger) *FCMChannel {
	ch := &FCMChannel{log: log.With().Str("component", "fcm").Logger()}
	if client != nil {
		ch.client = client
	}
	return ch
}

// Send delivers one message per topic in topics.
func (f *FCMChannel) Send(ctx context.Context, topics []string, title, body string) error {
	if f.client == nil {
		return ErrNotConfigured
	}
	var errs []error
	for _, topic := range topics {
		id, err := f.client.Send(ctx, topicMessage(topic, title, body))
		if err != nil {
			errs = append(errs, fmt.Errorf("topic %s: %w", topic, err))
			continue
		}
		f.log.Debug().Str("topic", topic).Str("message_id", id).Msg("push sent")
	}
	return errors.Join(errs...)
}

func topicMessage(topic, title, body string) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:    "directory_admin",
				DefaultSound: true,
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: title,
				Body:  body,
			},
		},
	}
}

// Subscribe registers device tokens to topic.
func (f *FCMChannel) Subscribe(ctx context.Context, tokens []string, topic string) error {
	if f.client == nil {
		return ErrNotConfigured
	}
	resp, err := f.client.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	if resp.FailureCount > 0 {
		return fmt.Errorf("subscribe to %s: %d of %d tokens failed", topic, resp.FailureCount, len(tokens))
	}
	f.log.Info().Str("topic", topic).Int("tokens", resp.SuccessCount).Msg("devices subscribed")
	return nil
}
