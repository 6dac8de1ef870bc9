package services

import (
	"context"
	"testing"

	"widget-share-backend/internal/apperr"
	"widget-share-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFriendFixture(t *testing.T, nicknames ...string) (*FriendService, map[string]*models.User) {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserStore()
	svc := NewFriendService(newFakeFriendStore(users), users)

	byNickname := make(map[string]*models.User, len(nicknames))
	for _, nick := range nicknames {
		u := &models.User{Email: nick + "@x.com", Nickname: nick, PasswordHash: "hash"}
		require.NoError(t, users.Create(ctx, u))
		byNickname[nick] = u
	}
	return svc, byNickname
}

func TestSendAcceptFlow(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice", "bob")
	alice, bob := users["alice"], users["bob"]

	require.NoError(t, svc.SendRequest(ctx, alice.ID, "bob"))

	pending, err := svc.ListPendingRequests(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.ID, pending[0].FromUserID)
	assert.Equal(t, bob.ID, pending[0].ToUserID)
	assert.Equal(t, models.StatusPending, pending[0].Status)

	require.NoError(t, svc.Accept(ctx, pending[0].ID, bob.ID))

	aliceFriends, err := svc.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, bob.ID, aliceFriends[0].ID)

	bobFriends, err := svc.ListFriends(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, alice.ID, bobFriends[0].ID)

	pending, err = svc.ListPendingRequests(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, pending, "accepted request must leave the pending list")
}

func TestDuplicatePendingRequestConflicts(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice", "bob")
	alice, bob := users["alice"], users["bob"]

	require.NoError(t, svc.SendRequest(ctx, alice.ID, "bob"))

	err := svc.SendRequest(ctx, alice.ID, "bob")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err), "same direction")

	err = svc.SendRequest(ctx, bob.ID, "alice")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err), "reverse direction")
}

func TestSelfRequestRejected(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice")

	err := svc.SendRequest(ctx, users["alice"].ID, "alice")
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestSendRequestUnknownNickname(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice")

	err := svc.SendRequest(ctx, users["alice"].ID, "ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSendRequestToExistingFriendConflicts(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice", "bob")
	alice, bob := users["alice"], users["bob"]

	require.NoError(t, svc.SendRequest(ctx, alice.ID, "bob"))
	pending, err := svc.ListPendingRequests(ctx, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, pending[0].ID, bob.ID))

	err = svc.SendRequest(ctx, alice.ID, "bob")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = svc.SendRequest(ctx, bob.ID, "alice")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAcceptAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice", "bob", "carol")
	alice, bob, carol := users["alice"], users["bob"], users["carol"]

	require.NoError(t, svc.SendRequest(ctx, alice.ID, "bob"))
	pending, err := svc.ListPendingRequests(ctx, bob.ID)
	require.NoError(t, err)
	reqID := pending[0].ID

	err = svc.Accept(ctx, reqID, carol.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), "not the addressee")

	err = svc.Accept(ctx, reqID, alice.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), "sender cannot accept")

	err = svc.Accept(ctx, 9999, bob.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "unknown request id")

	require.NoError(t, svc.Accept(ctx, reqID, bob.ID))

	err = svc.Accept(ctx, reqID, bob.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "already resolved")
}

func TestDecline(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice", "bob")
	alice, bob := users["alice"], users["bob"]

	require.NoError(t, svc.SendRequest(ctx, alice.ID, "bob"))
	pending, err := svc.ListPendingRequests(ctx, bob.ID)
	require.NoError(t, err)
	reqID := pending[0].ID

	err = svc.Decline(ctx, reqID, alice.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, svc.Decline(ctx, reqID, bob.ID))

	friends, err := svc.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, friends, "decline must not create an edge")

	err = svc.Decline(ctx, reqID, bob.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "already resolved")

	// A declined request no longer blocks a fresh one
	require.NoError(t, svc.SendRequest(ctx, alice.ID, "bob"))
}

func TestSearchByNickname(t *testing.T) {
	ctx := context.Background()
	svc, users := newFriendFixture(t, "alice")

	got, err := svc.SearchByNickname(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, users["alice"].ID, got.ID)

	got, err = svc.SearchByNickname(ctx, "ghost")
	require.NoError(t, err, "absence is not an error")
	assert.Nil(t, got)

	// Exact match is case-sensitive
	got, err = svc.SearchByNickname(ctx, "Alice")
	require.NoError(t, err)
	assert.Nil(t, got)
}
