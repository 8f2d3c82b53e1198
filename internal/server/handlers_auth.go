package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/locksum/locksum/internal/auth"
	"github.com/locksum/locksum/internal/common"
	"github.com/locksum/locksum/internal/model"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	Plan               model.Plan `json:"plan"`
	SubscriptionStatus string     `json:"subscription_status"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Plan:               u.Plan,
		SubscriptionStatus: u.SubscriptionStatus,
	}
}

// handleRegister creates a new account on the free plan.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondDetail(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid password")
		return
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Plan:         model.PlanFree,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.deps.Storage.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			respondDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		respondError(w, r, err)
		return
	}

	s.logger.Info("Registered user", "user_id", user.ID)
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// handleLogin verifies credentials and issues an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := s.deps.Storage.GetUserByEmail(r.Context(), email)
	if err != nil {
		// Same response whether the account exists or the password is wrong.
		respondDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		respondDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token, err := s.deps.Tokens.Issue(user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleMe returns the authenticated user's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	user, err := s.deps.Storage.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// currentUser loads the full user record for the authenticated request.
func (s *Server) currentUser(r *http.Request) (*model.User, error) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return s.deps.Storage.GetUserByID(r.Context(), userID)
}
