package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	maildomain "mailrag-backend/internal/mail/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback that handles token updates
type TokenUpdateFunc = maildomain.TokenUpdateFunc

type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Gmail] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// GetGmailService creates a Gmail service with the user's access token.
func (s *Service) GetGmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// FetchByDateRange returns every message matching the date range as a
// normalized record. Dates use Gmail's own query grammar: after:<start> is
// inclusive, before:<end> is exclusive, both in YYYY/MM/DD.
//
// A failure listing or paginating aborts the fetch and is returned to the
// caller. A failure fetching or decoding one message is logged and that
// message is skipped. Messages come back in the provider's natural order.
func (s *Service) FetchByDateRange(ctx context.Context, accessToken, refreshToken, startDate, endDate string, onTokenRefresh TokenUpdateFunc) ([]*maildomain.MailMessage, error) {
	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	user := "me"
	query := fmt.Sprintf("after:%s before:%s", startDate, endDate)

	var ids []string
	pageToken := ""
	for {
		listQuery := srv.Users.Messages.List(user).Q(query)
		if pageToken != "" {
			listQuery = listQuery.PageToken(pageToken)
		}
		resp, err := listQuery.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list messages: %v", err)
		}
		for _, msg := range resp.Messages {
			ids = append(ids, msg.Id)
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	messages := make([]*maildomain.MailMessage, 0, len(ids))
	for _, id := range ids {
		msg, err := srv.Users.Messages.Get(user, id).Format("full").Do()
		if err != nil {
			log.Printf("[Gmail] Error fetching message %s: %v", id, err)
			continue
		}
		messages = append(messages, convertMessage(msg))
	}

	return messages, nil
}

// Watch sets up push notifications for the user's mailbox.
func (s *Service) Watch(ctx context.Context, accessToken, refreshToken string, topicName string, onTokenRefresh TokenUpdateFunc) error {
	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return err
	}

	// Clear any existing watch first; Gmail allows one push client per user.
	_ = srv.Users.Stop("me").Do()

	req := &gmail.WatchRequest{
		TopicName: topicName,
		LabelIds:  []string{"INBOX"},
	}

	resp, err := srv.Users.Watch("me", req).Do()
	if err != nil {
		return fmt.Errorf("unable to watch mailbox: %v", err)
	}
	log.Printf("[Gmail] Watch started. Expiration: %d, HistoryId: %d", resp.Expiration, resp.HistoryId)

	return nil
}

// Stop stops push notifications for the user's mailbox.
func (s *Service) Stop(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) error {
	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return err
	}

	if err := srv.Users.Stop("me").Do(); err != nil {
		return fmt.Errorf("unable to stop mailbox watch: %v", err)
	}
	return nil
}

// ValidateToken validates the access token by making a simple API call.
func (s *Service) ValidateToken(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) error {
	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return err
	}

	if _, err := srv.Users.GetProfile("me").Do(); err != nil {
		return errors.New("invalid or expired access token")
	}
	return nil
}

// Helper functions

func convertMessage(msg *gmail.Message) *maildomain.MailMessage {
	return &maildomain.MailMessage{
		ID:      msg.Id,
		Text:    extractBody(msg.Payload),
		Date:    getHeader(msg.Payload.Headers, "Date"),
		Sender:  getHeader(msg.Payload.Headers, "From"),
		Subject: getHeader(msg.Payload.Headers, "Subject"),
		Link:    fmt.Sprintf("https://mail.google.com/mail/u/0/#inbox/%s", msg.Id),
	}
}

// getHeader returns the value of the first header with an exact name match.
func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

// extractBody returns the best human-readable body of a message, or "" when
// none exists. Multipart messages use the first text/plain part in part
// order; text/html is only a fallback when no plain part exists. Single-part
// messages use the payload body directly.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if len(payload.Parts) > 0 {
		htmlBody := ""
		for _, part := range payload.Parts {
			if part.Body == nil || part.Body.Data == "" {
				continue
			}
			switch part.MimeType {
			case "text/plain":
				if text, ok := decodeBody(part.Body.Data); ok {
					return text
				}
			case "text/html":
				if htmlBody == "" {
					if text, ok := decodeBody(part.Body.Data); ok {
						htmlBody = text
					}
				}
			}
		}
		return htmlBody
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if text, ok := decodeBody(payload.Body.Data); ok {
			return text
		}
	}
	return ""
}

func decodeBody(data string) (string, bool) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Gmail omits padding on some payloads
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			log.Printf("[Gmail] Error decoding message body: %v", err)
			return "", false
		}
	}
	return string(decoded), true
}
