package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"chatbot-backend/internal/auth"
	"chatbot-backend/internal/database"
	"chatbot-backend/pkg/api"
)

type AuthService struct {
	db   *gorm.DB
	auth *auth.Authenticator
}

func NewAuthService(db *gorm.DB, authenticator *auth.Authenticator) *AuthService {
	return &AuthService{db: db, auth: authenticator}
}

func (s *AuthService) AddRoutes(r chi.Router) {
	r.Post("/register", s.Register)
	r.Post("/login", s.Login)
}

// Register and Login are plain handlers rather than RestHandlers because
// they set the token cookie on success.

func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "unable to parse request body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "email, username and password are required")
		return
	}

	var existing database.User
	err := s.db.WithContext(r.Context()).
		Where("email = ? OR username = ?", req.Email, req.Username).
		First(&existing).Error
	if err == nil {
		WriteErrorResponse(w, http.StatusBadRequest, "User already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Error("error checking for existing user", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "error creating user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("error hashing password", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "error creating user")
		return
	}

	user := database.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		slog.Error("error creating user", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "error creating user")
		return
	}

	token, err := s.auth.Sign(user.Username, user.ID)
	if err != nil {
		slog.Error("error signing token", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "error creating user")
		return
	}

	setTokenCookie(w, token)
	WriteJsonResponse(w, api.RegisterResponse{Success: true, UserID: user.ID.String()})
}

// loginFailure matches the body shape the browser client reads on a
// rejected login.
type loginFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "unable to parse request body")
		return
	}

	var user database.User
	err := s.db.WithContext(r.Context()).Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeLoginFailure(w, "User not found")
		return
	}
	if err != nil {
		slog.Error("error looking up user", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "error logging in")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeLoginFailure(w, "Invalid credentials")
		return
	}

	token, err := s.auth.Sign(user.Username, user.ID)
	if err != nil {
		slog.Error("error signing token", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "error logging in")
		return
	}

	setTokenCookie(w, token)
	WriteJsonResponse(w, api.LoginResponse{Success: true, Username: user.Username})
}

func writeLoginFailure(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(loginFailure{Success: false, Message: msg}); err != nil {
		slog.Error("error serializing login failure", "error", err)
	}
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

type claimsContextKey struct{}

// RequireAuth rejects requests without a validly signed token cookie and
// stashes the verified claims in the request context.
func (s *AuthService) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.TokenCookieName)
		if err != nil {
			WriteErrorResponse(w, http.StatusUnauthorized, "Please login")
			return
		}

		claims, err := s.auth.Verify(cookie.Value)
		if err != nil {
			WriteErrorResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by RequireAuth, if any.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(auth.Claims)
	return claims, ok
}
