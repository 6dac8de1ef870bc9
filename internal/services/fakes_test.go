package services

import (
	"context"
	"fmt"
	"io"
	"sort"

	"widget-share-backend/internal/apperr"
	"widget-share-backend/internal/models"
)

// In-memory stores mirroring the Postgres repositories' semantics,
// including the uniqueness constraints the real schema enforces.

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email || u.Nickname == user.Nickname {
			return apperr.New(apperr.KindConflict, "email or nickname already taken")
		}
	}
	s.nextID++
	user.ID = s.nextID
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

func (s *fakeUserStore) GetByNickname(_ context.Context, nickname string) (*models.User, error) {
	for _, u := range s.users {
		if u.Nickname == nickname {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

type fakeFriendStore struct {
	userStore *fakeUserStore
	nextID    int64
	requests  map[int64]*models.FriendRequest
	edges     map[[2]int64]bool
}

func newFakeFriendStore(users *fakeUserStore) *fakeFriendStore {
	return &fakeFriendStore{
		userStore: users,
		requests:  make(map[int64]*models.FriendRequest),
		edges:     make(map[[2]int64]bool),
	}
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func (s *fakeFriendStore) CreateRequest(_ context.Context, req *models.FriendRequest) error {
	key := pairKey(req.FromUserID, req.ToUserID)
	for _, r := range s.requests {
		if r.Status == models.StatusPending && pairKey(r.FromUserID, r.ToUserID) == key {
			return apperr.New(apperr.KindConflict, "friend request already pending")
		}
	}
	s.nextID++
	req.ID = s.nextID
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *fakeFriendStore) GetRequestByID(_ context.Context, id int64) (*models.FriendRequest, error) {
	if r, ok := s.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "friend request not found")
}

func (s *fakeFriendStore) ListPendingTo(_ context.Context, userID int64) ([]*models.FriendRequest, error) {
	var reqs []*models.FriendRequest
	for _, r := range s.requests {
		if r.ToUserID == userID && r.Status == models.StatusPending {
			cp := *r
			reqs = append(reqs, &cp)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID < reqs[j].ID })
	return reqs, nil
}

func (s *fakeFriendStore) Accept(_ context.Context, requestID int64) error {
	r, ok := s.requests[requestID]
	if !ok || r.Status != models.StatusPending {
		return apperr.New(apperr.KindNotFound, "no pending friend request")
	}
	r.Status = models.StatusAccepted
	s.edges[pairKey(r.FromUserID, r.ToUserID)] = true
	return nil
}

func (s *fakeFriendStore) Decline(_ context.Context, requestID int64) error {
	r, ok := s.requests[requestID]
	if !ok || r.Status != models.StatusPending {
		return apperr.New(apperr.KindNotFound, "no pending friend request")
	}
	r.Status = models.StatusDeclined
	return nil
}

func (s *fakeFriendStore) ListFriends(_ context.Context, userID int64) ([]*models.User, error) {
	var users []*models.User
	for key, ok := range s.edges {
		if !ok {
			continue
		}
		var other int64
		switch userID {
		case key[0]:
			other = key[1]
		case key[1]:
			other = key[0]
		default:
			continue
		}
		if u, found := s.userStore.users[other]; found {
			cp := *u
			users = append(users, &cp)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *fakeFriendStore) AreFriends(_ context.Context, userID, otherID int64) (bool, error) {
	return s.edges[pairKey(userID, otherID)], nil
}

type fakePhotoStore struct {
	nextID int64
	photos []*models.Photo
}

func (s *fakePhotoStore) CreateBatch(_ context.Context, photos []*models.Photo) error {
	for _, p := range photos {
		s.nextID++
		p.ID = s.nextID
		cp := *p
		s.photos = append(s.photos, &cp)
	}
	return nil
}

func (s *fakePhotoStore) ListByReceiver(_ context.Context, userID int64) ([]*models.Photo, error) {
	var photos []*models.Photo
	for _, p := range s.photos {
		if p.ReceiverID == userID {
			cp := *p
			photos = append(photos, &cp)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].TakenAt.Equal(photos[j].TakenAt) {
			return photos[i].TakenAt.After(photos[j].TakenAt)
		}
		return photos[i].ID < photos[j].ID
	})
	return photos, nil
}

type fakeObjectStorage struct {
	puts int
}

func (s *fakeObjectStorage) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.puts++
	return fmt.Sprintf("https://cdn.test/%s", key), nil
}
