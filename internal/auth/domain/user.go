package domain

import "time"

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`
	Provider string `json:"provider"` // "email", "google" or "imap"

	// Google provider credentials
	GoogleAccessToken  string `json:"-"`
	GoogleRefreshToken string `json:"-"`

	// IMAP provider credentials; password stored AES-GCM encrypted
	ImapServer   string `json:"imap_server,omitempty"`
	ImapPort     int    `json:"imap_port,omitempty"`
	ImapPassword string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasMailCredentials reports whether the user can fetch mail at all. The
// pipeline treats a user without credentials as "please log in first".
func (u *User) HasMailCredentials() bool {
	switch u.Provider {
	case "imap":
		return u.ImapServer != "" && u.ImapPassword != ""
	default:
		return u.GoogleAccessToken != ""
	}
}

type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
