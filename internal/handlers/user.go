package handlers

import (
	"net/http"

	"widget-share-backend/internal/middleware"
	"widget-share-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles auth and profile HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// TokenResponse is the login response body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	nickname := r.PostFormValue("nickname")
	password := r.PostFormValue("password")

	user, err := h.userService.Register(ctx, email, nickname, password)
	if err != nil {
		log.Error().Err(err).Str("email", email).Str("nickname", nickname).Msg("Failed to register user")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("nickname", user.Nickname).
		Msg("User registered")

	respondJSON(w, user)
}

// Token handles POST /token. The form field is named "username" but
// carries the email, matching the client's login form.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.userService.Login(ctx, email, password)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to log in")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Profile handles GET /profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get profile")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, user)
}
