package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/events"
)

// PushChannel is a Channel whose recipients are topics devices subscribe to.
type PushChannel interface {
	Channel
	Subscribe(ctx context.Context, tokens []string, topic string) error
}

// AdminStream receives messages for the admin dashboard.
type AdminStream interface {
	Publish(ctx context.Context, msg AdminMessage) error
}

type Service struct {
	repo       Repository
	mailer     Channel
	pusher     PushChannel
	stream     AdminStream
	adminTopic string
	log        zerolog.Logger
}

func NewService(repo Repository, mailer Channel, pusher PushChannel, stream AdminStream, adminTopic string, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		mailer:     mailer,
		pusher:     pusher,
		stream:     stream,
		adminTopic: adminTopic,
		log:        log.With().Str("component", "notification").Logger(),
	}
}

// Handle turns a submission event into applicant mail, an admin push and a
// message on the admin stream. Every attempt is logged; the returned error
// joins the deliveries that failed.
func (s *Service) Handle(ctx context.Context, evt events.Event) error {
	var title, message string
	var errs []error

	switch evt.Type {
	case events.TypeSubmissionCreated:
		title = "New business submission"
		message = fmt.Sprintf("%s is waiting for review.", evt.Name)
		errs = append(errs, s.dispatch(ctx, evt, ChannelPush, s.pusher, s.adminTopic, title, message))

	case events.TypeSubmissionApproved:
		title = "Submission approved"
		message = fmt.Sprintf("%s was approved by %s.", evt.Name, evt.Actor)
		subject := fmt.Sprintf("Your business %q is now listed", evt.Name)
		body := fmt.Sprintf("Hello,\nGood news: %s has been approved and is now visible in the directory.\nThank you for joining us.", evt.Name)
		errs = append(errs, s.dispatch(ctx, evt, ChannelEmail, s.mailer, evt.Email, subject, body))

	case events.TypeSubmissionRejected:
		title = "Submission rejected"
		message = fmt.Sprintf("%s was rejected by %s.", evt.Name, evt.Actor)
		subject := fmt.Sprintf("Your business submission %q was not approved", evt.Name)
		body := fmt.Sprintf("Hello,\nWe could not approve %s for listing.\nReason: %s\nYou are welcome to submit a new application.", evt.Name, evt.RejectionReason)
		errs = append(errs, s.dispatch(ctx, evt, ChannelEmail, s.mailer, evt.Email, subject, body))

	default:
		s.log.Debug().Str("type", evt.Type).Msg("ignoring event")
		return nil
	}

	errs = append(errs, s.broadcast(ctx, evt, title, message))
	return errors.Join(errs...)
}

func (s *Service) dispatch(ctx context.Context, evt events.Event, channel string, ch Channel, recipient, subject, body string) error {
	entry := &NotificationLog{
		EventID:      evt.ID,
		EventType:    evt.Type,
		SubmissionID: evt.SubmissionID,
		Channel:      channel,
		Recipient:    recipient,
		Subject:      subject,
		Body:         body,
		Status:       StatusSent,
	}

	var err error
	switch {
	case ch == nil || strings.TrimSpace(recipient) == "":
		err = ErrNotConfigured
	default:
		err = ch.Send(ctx, []string{recipient}, subject, body)
	}

	var result error
	switch {
	case errors.Is(err, ErrNotConfigured):
		entry.Status = StatusSkipped
	case err != nil:
		entry.Status = StatusFailed
		msg := err.Error()
		entry.Error = &msg
		result = fmt.Errorf("%s to %s: %w", channel, recipient, err)
		s.log.Error().Err(err).Str("channel", channel).Uint("submission_id", evt.SubmissionID).Msg("notification failed")
	default:
		s.log.Info().Str("channel", channel).Uint("submission_id", evt.SubmissionID).Msg("notification sent")
	}

	if lerr := s.repo.CreateLog(ctx, entry); lerr != nil {
		s.log.Error().Err(lerr).Msg("failed to record notification")
	}
	return result
}

func (s *Service) broadcast(ctx context.Context, evt events.Event, title, message string) error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Publish(ctx, AdminMessage{
		Type:         evt.Type,
		SubmissionID: evt.SubmissionID,
		BusinessID:   evt.BusinessID,
		Title:        title,
		Message:      message,
		CreatedAt:    time.Now().UTC(),
	})
	if err == nil || errors.Is(err, ErrNotConfigured) {
		return nil
	}
	s.log.Error().Err(err).Uint("submission_id", evt.SubmissionID).Msg("admin stream publish failed")
	return fmt.Errorf("admin stream: %w", err)
}

// RegisterAdminDevice subscribes an admin's device to the admin push topic.
func (s *Service) RegisterAdminDevice(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.Validation("device_token is required")
	}
	if s.pusher == nil {
		return apperr.Validation("push notifications are not configured")
	}
	if err := s.pusher.Subscribe(ctx, []string{token}, s.adminTopic); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return apperr.Validation("push notifications are not configured")
		}
		return fmt.Errorf("register device: %w", err)
	}
	return nil
}

func (s *Service) ListLogs(ctx context.Context, f LogFilter) ([]NotificationLog, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	logs, err := s.repo.ListLogs(ctx, f)
	if err != nil {
		return nil, apperr.Store("list notifications", err)
	}
	if logs == nil {
		logs = []NotificationLog{}
	}
	return logs, nil
}
