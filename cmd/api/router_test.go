package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "mailrag-backend/internal/auth/domain"
	authdto "mailrag-backend/internal/auth/dto"
	maildomain "mailrag-backend/internal/mail/domain"
	"mailrag-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type fakeAuthUsecase struct {
	loggedOut []string
}

func (f *fakeAuthUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthUsecase) GoogleSignIn(req *authdto.GoogleSignInRequest) (*authdto.TokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthUsecase) IMAPLogin(req *authdto.IMAPLoginRequest) (*authdto.TokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthUsecase) Logout(refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeAuthUsecase) ValidateToken(token string) (*authdomain.User, error) {
	return nil, errors.New("invalid token")
}

type fakeMailUsecase struct{}

func (f *fakeMailUsecase) IngestEmails(ctx context.Context, userID, startDate, endDate string) (*maildomain.IngestRun, error) {
	return nil, nil
}

func (f *fakeMailUsecase) IngestRecent(ctx context.Context, userEmail string) error { return nil }

func (f *fakeMailUsecase) FindMostRelevant(ctx context.Context, userID, query string, topK int) ([]*maildomain.RecordMetadata, error) {
	return nil, nil
}

func (f *fakeMailUsecase) Answer(ctx context.Context, userID, query string, topK int) (string, []*maildomain.RecordMetadata, error) {
	return "", nil, nil
}

func (f *fakeMailUsecase) ClearIndex(ctx context.Context, userID string) error { return nil }

func (f *fakeMailUsecase) ListRuns(userID string) ([]*maildomain.IngestRun, error) {
	return nil, nil
}

func (f *fakeMailUsecase) WatchMailbox(ctx context.Context, userID string) error { return nil }

func newTestRouter(authUc *fakeAuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, authUc, &fakeMailUsecase{}, &config.Config{})
	return r
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(&fakeAuthUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLogoutRoute(t *testing.T) {
	authUc := &fakeAuthUsecase{}
	r := newTestRouter(authUc)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"refresh_token": "tok"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(authUc.loggedOut) != 1 || authUc.loggedOut[0] != "tok" {
		t.Fatalf("logout not delegated, got %v", authUc.loggedOut)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(&fakeAuthUsecase{})

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/mail/ingest"},
		{http.MethodGet, "/api/mail/runs"},
		{http.MethodDelete, "/api/mail/index"},
		{http.MethodPost, "/api/search/semantic"},
		{http.MethodPost, "/api/search/answer"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, w.Code)
		}
	}
}
