package handlers

import (
	"encoding/json"
	"net/http"

	"widget-share-backend/internal/middleware"
	"widget-share-backend/internal/models"
	"widget-share-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// UploadResponse is the upload response body
type UploadResponse struct {
	URL string `json:"url"`
}

// photoDTO is the history wire format; timestamp is unix milliseconds
type photoDTO struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Timestamp  int64  `json:"timestamp"`
}

// Upload handles POST /upload. The multipart body is streamed to object
// storage part by part, never buffered fully in memory.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, "multipart body required", http.StatusBadRequest)
		return
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			respondError(w, "file part is required", http.StatusBadRequest)
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		url, err := h.photoService.Upload(ctx, part, part.Header.Get("Content-Type"))
		part.Close()
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to upload photo")
			respondDomainError(w, err)
			return
		}

		log.Info().
			Int64("user_id", userID).
			Str("url", url).
			Msg("Photo uploaded")

		respondJSON(w, UploadResponse{URL: url})
		return
	}
}

// Send handles POST /photos/send. friend_ids arrives as a JSON integer
// array encoded as a form string, matching the client.
func (h *PhotoHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	url := r.PostFormValue("url")

	var friendIDs []int64
	if raw := r.PostFormValue("friend_ids"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &friendIDs); err != nil {
			respondError(w, "friend_ids must be a JSON array of integers", http.StatusBadRequest)
			return
		}
	}

	if err := h.photoService.SendToFriends(ctx, userID, url, friendIDs); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Int("recipients", len(friendIDs)).
			Msg("Failed to send photo")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Int("recipients", len(friendIDs)).
		Msg("Photo sent")

	w.WriteHeader(http.StatusOK)
}

// History handles GET /photos/history
func (h *PhotoHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	photos, err := h.photoService.History(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get photo history")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, toPhotoDTOs(photos))
}

func toPhotoDTOs(photos []*models.Photo) []photoDTO {
	dtos := make([]photoDTO, 0, len(photos))
	for _, p := range photos {
		dtos = append(dtos, photoDTO{
			ID:         p.ID,
			URL:        p.URL,
			SenderID:   p.SenderID,
			ReceiverID: p.ReceiverID,
			Timestamp:  p.TakenAt.UnixMilli(),
		})
	}
	return dtos
}
