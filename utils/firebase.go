package utils

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrFirebaseNotConfigured is returned when no credentials file is set.
var ErrFirebaseNotConfigured = errors.New("firebase credentials not configured")

// NewMessagingClient builds an FCM client from a service account file.
// GOOGLE_APPLICATION_CREDENTIALS is used when credentialsPath is empty.
func NewMessagingClient(ctx context.Context, credentialsPath, projectID string) (*messaging.Client, error) {
	if credentialsPath == "" {
		credentialsPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if credentialsPath == "" {
		return nil, ErrFirebaseNotConfigured
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials %s: %w", credentialsPath, err)
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app initialization failed: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm client initialization failed: %w", err)
	}
	return client, nil
}
