package store

import (
	"context"
	"testing"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailIsSharedAcrossKinds(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &models.User{FullName: "Asha", Credentials: models.Credentials{Email: " Asha@Example.com "}}
	require.NoError(t, s.CreateAccount(ctx, UserAccount(u)))
	assert.Equal(t, "asha@example.com", u.Email)

	n := &models.Ngo{Name: "Green Earth", Credentials: models.Credentials{Email: "asha@example.com"}}
	err := s.CreateAccount(ctx, NgoAccount(n))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	acc, err := s.FindAccountByEmail(ctx, engagement.KindUser, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, engagement.User(u.ID), acc.Principal())

	_, err = s.FindAccountByEmail(ctx, engagement.KindNgo, "asha@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSaveCredentials(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	n := &models.Ngo{Name: "Green Earth", Credentials: models.Credentials{Email: "g@e.org", Otp: "123456"}}
	require.NoError(t, s.CreateAccount(ctx, NgoAccount(n)))

	acc, err := s.FindAccount(ctx, engagement.Ngo(n.ID))
	require.NoError(t, err)
	acc.Creds().Verified = true
	acc.Creds().Otp = ""
	require.NoError(t, s.SaveCredentials(ctx, acc))

	loaded, err := s.FindNgo(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Verified)
	assert.Empty(t, loaded.Otp)
}

func TestSearchUsersLoadsPosts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := &models.User{FullName: "Ravi Kumar", Credentials: models.Credentials{Email: "ravi@example.com"}}
	require.NoError(t, s.CreateAccount(ctx, UserAccount(u)))
	post := seedPost(t, s, engagement.User(u.ID))
	_, err := s.ToggleVote(ctx, Target{Type: models.TargetPost, ID: post.ID}, engagement.Ngo("n9"), engagement.Upvote)
	require.NoError(t, err)

	users, err := s.SearchUsers(ctx, "ravi")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Len(t, users[0].CreatedPosts, 1)

	a := engagement.Projector{}.Project(users[0].CreatedPosts[0].Entity(), engagement.Ngo("n9"))
	assert.True(t, a.IsVoted)
	assert.Equal(t, 1, a.UpVoteCount)
}

func TestUpdateNgoKeepsUnsetFields(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	n := &models.Ngo{Name: "Old", Phone: "111", Credentials: models.Credentials{Email: "o@e.org"}}
	require.NoError(t, s.CreateAccount(ctx, NgoAccount(n)))

	updated, err := s.UpdateNgo(ctx, n.ID, NgoProfile{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "111", updated.Phone)
}

func TestListUsersByPoints(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, name := range []string{"Asha", "Ravi", "Meera"} {
		u := &models.User{FullName: name, Credentials: models.Credentials{Email: name + "@example.com"}}
		require.NoError(t, s.CreateAccount(ctx, UserAccount(u)))
		if name == "Ravi" {
			require.NoError(t, s.AddPoints(ctx, engagement.User(u.ID), 5, "donation"))
		}
	}

	users, err := s.ListUsers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ravi", users[0].FullName)
	assert.Equal(t, "Asha", users[1].FullName)
}

func TestListNgos(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	n := &models.Ngo{Name: "Green Earth", Credentials: models.Credentials{Email: "g@e.org"}}
	require.NoError(t, s.CreateAccount(ctx, NgoAccount(n)))
	seedPost(t, s, engagement.Ngo(n.ID))

	ngos, err := s.ListNgos(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ngos, 1)
	assert.Len(t, ngos[0].CreatedPosts, 1)
}
