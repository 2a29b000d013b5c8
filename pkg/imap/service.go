package imap

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	maildomain "mailrag-backend/internal/mail/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Service fetches mail over IMAP for accounts that don't use Gmail.
// It implements the same fetch contract as the Gmail provider.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// FetchByDateRange returns normalized messages received in [start, end).
// Dates use the same YYYY/MM/DD grammar as the Gmail provider.
func (s *Service) FetchByDateRange(ctx context.Context, server string, port int, username, password, startDate, endDate string) ([]*maildomain.MailMessage, error) {
	start, err := time.Parse("2006/01/02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %v", startDate, err)
	}
	end, err := time.Parse("2006/01/02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %v", endDate, err)
	}

	c, err := client.DialTLS(fmt.Sprintf("%s:%d", server, port), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to IMAP server: %v", err)
	}
	defer c.Logout()

	if err := c.Login(username, password); err != nil {
		return nil, fmt.Errorf("IMAP login failed: %v", err)
	}

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("unable to select INBOX: %v", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = start
	criteria.Before = end
	uids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("IMAP search failed: %v", err)
	}
	if len(uids) == 0 {
		return []*maildomain.MailMessage{}, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	results := make([]*maildomain.MailMessage, 0, len(uids))
	for msg := range messages {
		record, err := convertMessage(msg, section)
		if err != nil {
			log.Printf("[IMAP] Error reading message %d: %v", msg.SeqNum, err)
			continue
		}
		results = append(results, record)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("IMAP fetch failed: %v", err)
	}

	return results, nil
}

func convertMessage(msg *imap.Message, section *imap.BodySectionName) (*maildomain.MailMessage, error) {
	record := &maildomain.MailMessage{
		ID: fmt.Sprintf("%d", msg.SeqNum),
	}

	if msg.Envelope != nil {
		record.Subject = msg.Envelope.Subject
		if !msg.Envelope.Date.IsZero() {
			record.Date = msg.Envelope.Date.Format(time.RFC1123Z)
		}
		if len(msg.Envelope.From) > 0 {
			record.Sender = msg.Envelope.From[0].Address()
		}
		if msg.Envelope.MessageId != "" {
			record.ID = msg.Envelope.MessageId
		}
	}

	body := msg.GetBody(section)
	if body == nil {
		return record, nil
	}

	text, err := extractBody(body)
	if err != nil {
		return nil, err
	}
	record.Text = text
	return record, nil
}

// extractBody walks the MIME structure preferring the first text/plain part,
// falling back to text/html only when no plain part exists.
func extractBody(r io.Reader) (string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", err
	}

	htmlBody := ""
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		switch strings.ToLower(contentType) {
		case "text/plain":
			data, err := io.ReadAll(part.Body)
			if err != nil {
				return "", err
			}
			return string(data), nil
		case "text/html":
			if htmlBody == "" {
				data, err := io.ReadAll(part.Body)
				if err == nil {
					htmlBody = string(data)
				}
			}
		}
	}

	return htmlBody, nil
}
