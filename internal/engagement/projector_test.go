package engagement

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectVotedByViewer(t *testing.T) {
	e := Entity{
		Kind: KindPost,
		ID:   "p1",
		Votes: []Vote{
			{Voter: User("u1"), Type: Upvote},
			{Voter: User("u2"), Type: Downvote},
		},
	}

	a := Projector{}.Project(e, User("u1"))
	assert.True(t, a.IsVoted)
	require.NotNil(t, a.VoteTypeIfVoted)
	assert.Equal(t, Upvote, *a.VoteTypeIfVoted)
	assert.Equal(t, 1, a.UpVoteCount)

	a = Projector{}.Project(e, User("u3"))
	assert.False(t, a.IsVoted)
	assert.Nil(t, a.VoteTypeIfVoted)
	assert.Equal(t, 1, a.UpVoteCount)
}

func TestProjectNeverMatchesOtherKind(t *testing.T) {
	e := Entity{
		Kind:  KindPost,
		Votes: []Vote{{Voter: User("same"), Type: Downvote}},
		Comments: []Comment{{
			ID:     "c1",
			Author: User("same"),
			Votes:  []Vote{{Voter: User("same"), Type: Upvote}},
		}},
	}

	a := Projector{}.Project(e, Ngo("same"))
	assert.False(t, a.IsVoted)
	assert.False(t, a.IsCommented)
	assert.False(t, a.IsVotedInComments)
	assert.Empty(t, a.CommentIdsIfCommented)
	assert.Empty(t, a.VoteTypeWithCommentIfVoted)
}

func TestProjectCommentVotesInNestedTree(t *testing.T) {
	e := Entity{
		Kind: KindIssue,
		ID:   "i1",
		Comments: []Comment{
			{
				ID:     "C1",
				Author: User("u1"),
				Votes:  []Vote{{Voter: Ngo("ngo1"), Type: Downvote}},
				Replies: []Comment{
					{ID: "C2", Author: Ngo("ngo1"), Votes: []Vote{{Voter: Ngo("ngo1"), Type: Upvote}}},
				},
			},
			{ID: "C3", Author: User("u2")},
		},
	}

	a := Projector{}.Project(e, Ngo("ngo1"))
	assert.True(t, a.IsVotedInComments)
	assert.Equal(t, []CommentVote{
		{CommentID: "C1", VoteType: Downvote},
		{CommentID: "C2", VoteType: Upvote},
	}, a.VoteTypeWithCommentIfVoted)
	assert.True(t, a.IsCommented)
	assert.Equal(t, []string{"C2"}, a.CommentIdsIfCommented)
	assert.Equal(t, 2, a.CommentsCount)
	assert.Equal(t, 3, a.AllCommentsCount)
}

func TestProjectEmptyEntity(t *testing.T) {
	a := Projector{}.Project(Entity{Kind: KindPost}, User("u1"))
	assert.False(t, a.IsVoted)
	assert.NotNil(t, a.VoteTypeWithCommentIfVoted)
	assert.NotNil(t, a.CommentIdsIfCommented)
	assert.Zero(t, a.UpVoteCount)
	assert.Zero(t, a.CommentsCount)
	assert.Nil(t, a.IsOwner)
	assert.Nil(t, a.IsJoined)
}

func TestProjectAnonymousViewerMatchesNothing(t *testing.T) {
	e := Entity{
		Kind:     KindCampaign,
		Owner:    User(""),
		Votes:    []Vote{{Voter: User(""), Type: Upvote}},
		Comments: []Comment{{ID: "c", Author: User("")}},
	}
	a := Projector{}.Project(e, Principal{})
	assert.False(t, a.IsVoted)
	assert.False(t, a.IsCommented)
	require.NotNil(t, a.IsOwner)
	assert.False(t, *a.IsOwner)
}

func TestProjectIsIdempotent(t *testing.T) {
	e := Entity{
		Kind:  KindIssue,
		Votes: []Vote{{Voter: User("u1"), Type: Upvote}, {Voter: Ngo("n1"), Type: Upvote}},
		Comments: []Comment{
			{ID: "c1", Author: User("u1"), Votes: []Vote{{Voter: User("u1"), Type: Downvote}}},
		},
	}
	p := Projector{}
	first := p.Project(e, User("u1"))
	second := p.Project(e, User("u1"))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("projection changed between calls (-first +second):\n%s", diff)
	}
}

func TestProjectIsVotedIffVotePresent(t *testing.T) {
	viewers := []Principal{User("a"), User("b"), Ngo("a"), Ngo("c")}
	votes := []Vote{{Voter: User("a"), Type: Downvote}, {Voter: Ngo("c"), Type: Upvote}}
	e := Entity{Kind: KindPost, Votes: votes}

	for _, v := range viewers {
		want := false
		for _, vote := range votes {
			if vote.Voter == v {
				want = true
			}
		}
		assert.Equal(t, want, Projector{}.Project(e, v).IsVoted, v.String())
	}
}

func TestProjectCampaignOwnership(t *testing.T) {
	e := Entity{
		Kind:        KindCampaign,
		Owner:       Ngo("x1"),
		JoinedUsers: []string{"u1"},
		JoinedNgos:  []string{"n1"},
	}

	loose := Projector{}
	a := loose.Project(e, Ngo("x1"))
	assert.True(t, *a.IsOwner)
	assert.False(t, *a.IsJoined)

	// id-only comparison lets a user with a colliding id look like the owner
	a = loose.Project(e, User("x1"))
	assert.True(t, *a.IsOwner)
	a = loose.Project(e, User("n1"))
	assert.True(t, *a.IsJoined)

	strict := Projector{StrictKind: true}
	a = strict.Project(e, User("x1"))
	assert.False(t, *a.IsOwner)
	a = strict.Project(e, User("n1"))
	assert.False(t, *a.IsJoined)
	a = strict.Project(e, Ngo("n1"))
	assert.True(t, *a.IsJoined)
	a = strict.Project(e, User("u1"))
	assert.True(t, *a.IsJoined)
}

func TestProjectFundRaisingHasOwnerOnly(t *testing.T) {
	a := Projector{}.Project(Entity{Kind: KindFundRaising, Owner: User("u1")}, User("u1"))
	require.NotNil(t, a.IsOwner)
	assert.True(t, *a.IsOwner)
	assert.Nil(t, a.IsJoined)
}
