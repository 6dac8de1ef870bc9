package handlers

import (
	"context"
	"net/http"
	"strconv"

	"widget-share-backend/internal/middleware"
	"widget-share-backend/internal/models"
	"widget-share-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FriendHandler handles friend-graph HTTP requests
type FriendHandler struct {
	friendService *services.FriendService
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
	}
}

// Search handles GET /users/search?nickname=. An unknown nickname responds
// 200 with a JSON null body rather than a 404, matching the client's
// optional result type.
func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		respondError(w, "nickname is required", http.StatusBadRequest)
		return
	}

	user, err := h.friendService.SearchByNickname(ctx, nickname)
	if err != nil {
		log.Error().Err(err).Str("nickname", nickname).Msg("Failed to search user")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, user)
}

// SendRequest handles POST /friends/request?to_nickname=
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	toNickname := r.URL.Query().Get("to_nickname")
	if toNickname == "" {
		respondError(w, "to_nickname is required", http.StatusBadRequest)
		return
	}

	if err := h.friendService.SendRequest(ctx, userID, toNickname); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Str("to_nickname", toNickname).
			Msg("Failed to send friend request")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Str("to_nickname", toNickname).
		Msg("Friend request sent")

	w.WriteHeader(http.StatusOK)
}

// ListRequests handles GET /friends/requests
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	reqs, err := h.friendService.ListPendingRequests(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list friend requests")
		respondDomainError(w, err)
		return
	}

	if reqs == nil {
		reqs = []*models.FriendRequest{}
	}
	respondJSON(w, reqs)
}

// Accept handles POST /friends/accept?request_id=
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "accept", h.friendService.Accept)
}

// Decline handles POST /friends/decline?request_id=
func (h *FriendHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "decline", h.friendService.Decline)
}

func (h *FriendHandler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	fn func(ctx context.Context, requestID, byUserID int64) error,
) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requestID, err := strconv.ParseInt(r.URL.Query().Get("request_id"), 10, 64)
	if err != nil {
		respondError(w, "request_id must be an integer", http.StatusBadRequest)
		return
	}

	if err := fn(ctx, requestID, userID); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("request_id", requestID).
			Str("action", action).
			Msg("Failed to resolve friend request")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Int64("request_id", requestID).
		Str("action", action).
		Msg("Friend request resolved")

	w.WriteHeader(http.StatusOK)
}

// ListFriends handles GET /friends
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list friends")
		respondDomainError(w, err)
		return
	}

	if friends == nil {
		friends = []*models.User{}
	}
	respondJSON(w, friends)
}
