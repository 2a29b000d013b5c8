package subscription

import (
	"strings"

	maildomain "mailrag-backend/internal/mail/domain"
)

// Candidate is a message flagged as a potential subscription.
type Candidate struct {
	EmailID          string `json:"email_id"`
	Subject          string `json:"subject"`
	From             string `json:"from"`
	Date             string `json:"date"`
	SubscriptionInfo string `json:"subscription_info"`
}

// Keywords that mark a message as a potential subscription.
var keywords = []string{
	"subscription",
	"unsubscribe",
	"renewal",
	"renew your",
	"billing",
	"invoice",
	"membership",
	"free trial",
	"your plan",
	"payment received",
}

// Scan flags messages whose text contains a subscription keyword. It is a
// plain keyword-membership filter; ranking and dedup are left to the sheet.
func Scan(messages []*maildomain.MailMessage) []Candidate {
	var candidates []Candidate
	for _, msg := range messages {
		if msg.Text == "" {
			continue
		}
		text := strings.ToLower(msg.Text)
		var matched []string
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			EmailID:          msg.ID,
			Subject:          msg.Subject,
			From:             msg.Sender,
			Date:             msg.Date,
			SubscriptionInfo: strings.Join(matched, ", "),
		})
	}
	return candidates
}

// Rows converts candidates to spreadsheet rows.
func Rows(candidates []Candidate) [][]interface{} {
	rows := make([][]interface{}, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []interface{}{c.EmailID, c.Subject, c.From, c.Date, c.SubscriptionInfo})
	}
	return rows
}
