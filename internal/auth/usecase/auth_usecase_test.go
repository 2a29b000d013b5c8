package usecase

import (
	"testing"
	"time"

	authdomain "mailrag-backend/internal/auth/domain"
	authdto "mailrag-backend/internal/auth/dto"
	"mailrag-backend/pkg/config"
)

type fakeUserRepo struct {
	users         map[string]*authdomain.User
	refreshTokens map[string]*authdomain.RefreshToken
	deletedTokens []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         map[string]*authdomain.User{},
		refreshTokens: map[string]*authdomain.RefreshToken{},
	}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	user.ID = "id-" + user.Email
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateGoogleTokens(userID, accessToken, refreshToken string) error {
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return r.refreshTokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(r.refreshTokens, token)
	r.deletedTokens = append(r.deletedTokens, token)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
}

func TestLogoutDeletesRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	repo.refreshTokens["tok"] = &authdomain.RefreshToken{Token: "tok", UserID: "u1"}

	if err := uc.Logout("tok"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := repo.refreshTokens["tok"]; ok {
		t.Fatal("refresh token must be deleted on logout")
	}
	if len(repo.deletedTokens) != 1 || repo.deletedTokens[0] != "tok" {
		t.Fatalf("unexpected deletions: %v", repo.deletedTokens)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	resp, err := uc.Register(&authdto.RegisterRequest{Email: "dave@example.com", Password: "password1", Name: "Dave"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}

	user, err := uc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if user.Email != "dave@example.com" {
		t.Fatalf("validated wrong user: %s", user.Email)
	}
}
