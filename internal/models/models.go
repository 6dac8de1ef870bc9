package models

import "time"

// RequestStatus is the lifecycle state of a friend request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

// User represents a registered user
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// FriendRequest represents a friend request between two users
type FriendRequest struct {
	ID         int64         `json:"id"`
	FromUserID int64         `json:"from_user_id"`
	ToUserID   int64         `json:"to_user_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"-"`
}

// Friendship represents a symmetric edge between two users.
// UserAID is always the smaller of the two ids.
type Friendship struct {
	UserAID   int64     `json:"user_a_id"`
	UserBID   int64     `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo represents one photo delivered to one receiver. Sending a photo
// to N friends produces N records sharing the same url and taken_at.
type Photo struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	TakenAt    time.Time `json:"taken_at"`
	CreatedAt  time.Time `json:"created_at"`
}
