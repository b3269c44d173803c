package store

import (
	"context"
	"testing"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCampaign(t *testing.T, s *Store, owner engagement.Principal) *models.Campaign {
	t.Helper()
	c := &models.Campaign{Title: "Beach cleanup", Description: "bring gloves", Motto: "Leave no trace"}
	c.OwnUserID, c.OwnNgoID = owner.Refs()
	require.NoError(t, s.CreateCampaign(context.Background(), c))
	return c
}

func memberIDs(t *testing.T, s *Store, id string) ([]string, []string) {
	t.Helper()
	c, err := s.FindCampaign(context.Background(), id)
	require.NoError(t, err)
	e := c.Entity()
	return e.JoinedUsers, e.JoinedNgos
}

func TestToggleMembershipRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	testutil.CreateUser(t, s.db, "u1")
	testutil.CreateNgo(t, s.db, "n1")
	c := seedCampaign(t, s, engagement.Ngo("n1"))

	beforeUsers, beforeNgos := memberIDs(t, s, c.ID)

	member, action, err := s.ToggleMembership(ctx, c.ID, engagement.User("u1"))
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, engagement.MembershipJoin, action)

	users, _ := memberIDs(t, s, c.ID)
	assert.Equal(t, []string{"u1"}, users)

	loaded, err := s.FindCampaign(ctx, c.ID)
	require.NoError(t, err)
	a := engagement.Projector{}.Project(loaded.Entity(), engagement.User("u1"))
	assert.True(t, *a.IsJoined)
	assert.False(t, *a.IsOwner)

	member, action, err = s.ToggleMembership(ctx, c.ID, engagement.User("u1"))
	require.NoError(t, err)
	assert.False(t, member)
	assert.Equal(t, engagement.MembershipLeave, action)

	afterUsers, afterNgos := memberIDs(t, s, c.ID)
	assert.ElementsMatch(t, beforeUsers, afterUsers)
	assert.ElementsMatch(t, beforeNgos, afterNgos)
}

func TestToggleMembershipUnknownCampaign(t *testing.T) {
	s := newStore(t)
	_, _, err := s.ToggleMembership(context.Background(), "missing", engagement.Ngo("n1"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestForceLeave(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	testutil.CreateNgo(t, s.db, "n1")
	c := seedCampaign(t, s, engagement.User("owner"))
	_, _, err := s.ToggleMembership(ctx, c.ID, engagement.Ngo("n1"))
	require.NoError(t, err)

	// an NGO that shares the owner's id is still not the owner
	err = s.ForceLeave(ctx, c.ID, engagement.Ngo("owner"), engagement.Ngo("n1"))
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	require.NoError(t, s.ForceLeave(ctx, c.ID, engagement.User("owner"), engagement.Ngo("n1")))
	joined, err := isMember(s.db, c.ID, engagement.Ngo("n1"))
	require.NoError(t, err)
	assert.False(t, joined)

	err = s.ForceLeave(ctx, c.ID, engagement.User("owner"), engagement.Ngo("n1"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
