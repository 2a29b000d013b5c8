package subscription

import (
	"strings"
	"testing"

	maildomain "mailrag-backend/internal/mail/domain"
)

func TestScanFlagsKeywordMatches(t *testing.T) {
	messages := []*maildomain.MailMessage{
		{ID: "1", Text: "Your SUBSCRIPTION renews next week", Subject: "Renewal notice", Sender: "billing@service.com", Date: "d1"},
		{ID: "2", Text: "lunch tomorrow?", Subject: "lunch", Sender: "friend@example.com", Date: "d2"},
		{ID: "3", Text: "click here to unsubscribe, invoice attached", Subject: "Invoice", Sender: "noreply@shop.com", Date: "d3"},
	}

	candidates := Scan(messages)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].EmailID != "1" || candidates[1].EmailID != "3" {
		t.Fatalf("wrong messages flagged: %+v", candidates)
	}
	if !strings.Contains(candidates[1].SubscriptionInfo, "unsubscribe") || !strings.Contains(candidates[1].SubscriptionInfo, "invoice") {
		t.Fatalf("matched keywords not recorded: %q", candidates[1].SubscriptionInfo)
	}
}

func TestScanSkipsEmptyText(t *testing.T) {
	if got := Scan([]*maildomain.MailMessage{{ID: "1", Text: ""}}); len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestRows(t *testing.T) {
	rows := Rows([]Candidate{{EmailID: "1", Subject: "s", From: "f", Date: "d", SubscriptionInfo: "billing"}})
	if len(rows) != 1 || len(rows[0]) != 5 {
		t.Fatalf("unexpected row shape: %v", rows)
	}
	if rows[0][0] != "1" || rows[0][4] != "billing" {
		t.Fatalf("unexpected row contents: %v", rows[0])
	}
}
