package gmail

import (
	"encoding/base64"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func part(mimeType, data string) *gmail.MessagePart {
	return &gmail.MessagePart{
		MimeType: mimeType,
		Body:     &gmail.MessagePartBody{Data: data},
	}
}

func TestExtractBodyPrefersPlainText(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			part("text/html", encode("<p>hello</p>")),
			part("text/plain", encode("hello")),
		},
	}
	if got := extractBody(payload); got != "hello" {
		t.Fatalf("expected plain part, got %q", got)
	}
}

func TestExtractBodyFirstPlainPartWins(t *testing.T) {
	payload := &gmail.MessagePart{
		Parts: []*gmail.MessagePart{
			part("text/plain", encode("first")),
			part("text/plain", encode("second")),
		},
	}
	if got := extractBody(payload); got != "first" {
		t.Fatalf("expected first plain part, got %q", got)
	}
}

func TestExtractBodyHTMLFallback(t *testing.T) {
	payload := &gmail.MessagePart{
		Parts: []*gmail.MessagePart{
			part("text/html", encode("<p>only html</p>")),
		},
	}
	if got := extractBody(payload); got != "<p>only html</p>" {
		t.Fatalf("expected html fallback, got %q", got)
	}
}

func TestExtractBodySinglePart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: encode("single part body")},
	}
	if got := extractBody(payload); got != "single part body" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractBodyEmpty(t *testing.T) {
	if got := extractBody(nil); got != "" {
		t.Fatalf("nil payload: got %q", got)
	}
	if got := extractBody(&gmail.MessagePart{}); got != "" {
		t.Fatalf("empty payload: got %q", got)
	}
	payload := &gmail.MessagePart{
		Parts: []*gmail.MessagePart{
			part("image/png", encode("binary")),
			{MimeType: "text/plain"},
		},
	}
	if got := extractBody(payload); got != "" {
		t.Fatalf("no decodable text: got %q", got)
	}
}

func TestDecodeBodyUnpadded(t *testing.T) {
	raw := base64.RawURLEncoding.EncodeToString([]byte("unpadded?"))
	got, ok := decodeBody(raw)
	if !ok || got != "unpadded?" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestDecodeBodyInvalid(t *testing.T) {
	if _, ok := decodeBody("!!not base64!!"); ok {
		t.Fatal("expected decode failure")
	}
}

func TestGetHeader(t *testing.T) {
	headers := []*gmail.MessagePartHeader{
		{Name: "date", Value: "lowercase"},
		{Name: "Date", Value: "first"},
		{Name: "Date", Value: "second"},
	}
	if got := getHeader(headers, "Date"); got != "first" {
		t.Fatalf("expected exact-case first match, got %q", got)
	}
	if got := getHeader(headers, "Subject"); got != "" {
		t.Fatalf("missing header should be empty, got %q", got)
	}
}
