package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP routing table. Every route except /register
// and /token goes through the auth middleware before any handler runs.
func NewRouter(
	userHandler *UserHandler,
	friendHandler *FriendHandler,
	photoHandler *PhotoHandler,
	auth func(http.Handler) http.Handler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	// Public routes
	r.Post("/register", userHandler.Register)
	r.Post("/token", userHandler.Token)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/profile", userHandler.Profile)
		r.Get("/users/search", friendHandler.Search)
		r.Post("/friends/request", friendHandler.SendRequest)
		r.Get("/friends/requests", friendHandler.ListRequests)
		r.Post("/friends/accept", friendHandler.Accept)
		r.Post("/friends/decline", friendHandler.Decline)
		r.Get("/friends", friendHandler.ListFriends)
		r.Post("/upload", photoHandler.Upload)
		r.Post("/photos/send", photoHandler.Send)
		r.Get("/photos/history", photoHandler.History)
	})

	return r
}
