package usecase

import (
	authdomain "mailrag-backend/internal/auth/domain"
	authdto "mailrag-backend/internal/auth/dto"
)

// AuthUsecase exposes the owner-identity surface: account creation, sign-in
// and bearer-token validation.
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	GoogleSignIn(req *authdto.GoogleSignInRequest) (*authdto.TokenResponse, error)
	IMAPLogin(req *authdto.IMAPLoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(token string) (*authdomain.User, error)
}
