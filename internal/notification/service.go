package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"mailrag-backend/internal/mail/usecase"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// GmailNotification is the payload Gmail publishes on the watch topic.
type GmailNotification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

// Service listens for Gmail push notifications and triggers incremental
// ingestion for the notified account.
type Service struct {
	pubsubClient *pubsub.Client
	mailUsecase  usecase.MailUsecase
	projectID    string
	topicName    string
	subName      string
	// Deduplication: track last historyId per account to avoid re-ingesting
	// on redelivered notifications. Receive dispatches the callback on many
	// goroutines, so access goes through mu.
	mu            sync.Mutex
	lastHistoryID map[string]uint64
}

// subscriptionName returns the configured subscription, defaulting to the
// topic-sub convention.
func subscriptionName(topicName, subName string) string {
	if subName != "" {
		return subName
	}
	return topicName + "-sub"
}

func NewService(projectID, topicName, subName string, mailUsecase usecase.MailUsecase, credentialsFile string) (*Service, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}

	return &Service{
		pubsubClient:  client,
		mailUsecase:   mailUsecase,
		projectID:     projectID,
		topicName:     topicName,
		subName:       subscriptionName(topicName, subName),
		lastHistoryID: make(map[string]uint64),
	}, nil
}

func (s *Service) Start(ctx context.Context) {
	log.Printf("[PubSub] Starting notification service with topic: %s, subscription: %s", s.topicName, s.subName)

	// Ensure subscription exists
	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[PubSub] Error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[PubSub] Topic %s does not exist, cannot create subscription", s.topicName)
			return
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[PubSub] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] Created subscription: %s", s.subName)
	}

	log.Printf("[PubSub] Listening for messages on subscription: %s", s.subName)
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages: %v", err)
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var notification GmailNotification
	if err := json.Unmarshal(msg.Data, &notification); err != nil {
		log.Printf("[PubSub] Failed to unmarshal notification: %v", err)
		return
	}

	log.Printf("[PubSub] Received notification for: %s (historyId: %d)", notification.EmailAddress, notification.HistoryID)

	if !s.advanceHistory(notification.EmailAddress, notification.HistoryID) {
		log.Printf("[PubSub] Skipping duplicate notification for %s (historyId %d)",
			notification.EmailAddress, notification.HistoryID)
		return
	}

	// Content-hash ids make the re-ingest of an already indexed message an
	// overwrite, so a generous one-day window is safe here.
	if err := s.mailUsecase.IngestRecent(ctx, notification.EmailAddress); err != nil {
		log.Printf("[PubSub] Incremental ingest for %s failed: %v", notification.EmailAddress, err)
	}
}

// advanceHistory records the historyId for the account and reports whether
// it moved forward. Stale or redelivered ids return false.
func (s *Service) advanceHistory(emailAddress string, historyID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastHistoryID[emailAddress]; ok && historyID <= last {
		return false
	}
	s.lastHistoryID[emailAddress] = historyID
	return true
}
