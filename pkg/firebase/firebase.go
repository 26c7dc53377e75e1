package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and messaging client
type App struct {
	FirebaseApp     *firebase.App
	MessagingClient *messaging.Client
}

// InitFirebase initializes the Firebase application and FCM messaging client.
// Missing credentials disable push instead of failing startup: the returned
// App carries a nil MessagingClient and the dispatcher degrades gracefully.
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		log.Println("Firebase credentials path not provided, push notifications disabled.")
		return &App{}, nil
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		log.Printf("Firebase credentials file not found at %s, push notifications disabled.", credentialsPath)
		return &App{}, nil
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}

	log.Println("Firebase app and messaging client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, MessagingClient: messagingClient}, nil
}
