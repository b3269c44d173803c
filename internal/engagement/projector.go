package engagement

// EntityKind 可投影的内容类型
type EntityKind string

const (
	KindPost        EntityKind = "post"
	KindIssue       EntityKind = "issue"
	KindCampaign    EntityKind = "campaign"
	KindFundRaising EntityKind = "fundraising"
)

type Vote struct {
	Voter Principal
	Type  VoteType
}

// Comment may carry Replies; issue comments nest one level, post comments are flat.
type Comment struct {
	ID      string
	Author  Principal
	Votes   []Vote
	Replies []Comment
}

// Entity 投影输入：实体及其全部已加载的关系，投影过程不做任何 I/O
type Entity struct {
	Kind     EntityKind
	ID       string
	Owner    Principal
	Votes    []Vote
	Comments []Comment

	// 仅 Campaign 使用
	JoinedUsers []string
	JoinedNgos  []string
}

type CommentVote struct {
	CommentID string   `json:"commentId"`
	VoteType  VoteType `json:"voteType"`
}

// Annotation 针对当前查看者计算出的派生状态，不持久化
type Annotation struct {
	IsVoted                    bool          `json:"isVoted"`
	VoteTypeIfVoted            *VoteType     `json:"voteTypeIfVoted,omitempty"`
	IsCommented                bool          `json:"isCommented"`
	IsVotedInComments          bool          `json:"isVotedInComments"`
	VoteTypeWithCommentIfVoted []CommentVote `json:"voteTypeWithCommentIfVoted"`
	CommentIdsIfCommented      []string      `json:"commentIdsIfCommented"`

	UpVoteCount      int `json:"upVoteCount"`
	CommentsCount    int `json:"commentsCount"`
	AllCommentsCount int `json:"allCommentsCount"`

	IsOwner  *bool `json:"isOwner,omitempty"`
	IsJoined *bool `json:"isJoined,omitempty"`
}

// Projector computes viewer annotations. StrictKind makes ownership and
// membership checks compare the principal kind as well as the id; by default
// only ids are compared.
type Projector struct {
	StrictKind bool
}

// Project 纯函数：同样的输入永远得到同样的输出
func (p Projector) Project(e Entity, viewer Principal) Annotation {
	a := Annotation{
		VoteTypeWithCommentIfVoted: []CommentVote{},
		CommentIdsIfCommented:      []string{},
	}

	if t, ok := findVote(e.Votes, viewer); ok {
		a.IsVoted = true
		a.VoteTypeIfVoted = &t
	}
	for _, v := range e.Votes {
		if v.Type == Upvote {
			a.UpVoteCount++
		}
	}

	a.CommentsCount = len(e.Comments)
	walkComments(e.Comments, func(c Comment) {
		a.AllCommentsCount++
		if c.Author == viewer && !viewer.IsZero() {
			a.IsCommented = true
			a.CommentIdsIfCommented = append(a.CommentIdsIfCommented, c.ID)
		}
		if t, ok := findVote(c.Votes, viewer); ok {
			a.IsVotedInComments = true
			a.VoteTypeWithCommentIfVoted = append(a.VoteTypeWithCommentIfVoted, CommentVote{
				CommentID: c.ID,
				VoteType:  t,
			})
		}
	})

	switch e.Kind {
	case KindCampaign:
		owner := p.isOwner(e.Owner, viewer)
		joined := p.isJoined(e, viewer)
		a.IsOwner = &owner
		a.IsJoined = &joined
	case KindFundRaising:
		owner := p.isOwner(e.Owner, viewer)
		a.IsOwner = &owner
	}
	return a
}

func (p Projector) isOwner(owner, viewer Principal) bool {
	if viewer.IsZero() || owner.IsZero() {
		return false
	}
	if p.StrictKind {
		return owner == viewer
	}
	return owner.ID == viewer.ID
}

func (p Projector) isJoined(e Entity, viewer Principal) bool {
	if viewer.IsZero() {
		return false
	}
	if !p.StrictKind || viewer.Kind == KindUser {
		if contains(e.JoinedUsers, viewer.ID) {
			return true
		}
	}
	if !p.StrictKind || viewer.Kind == KindNgo {
		if contains(e.JoinedNgos, viewer.ID) {
			return true
		}
	}
	return false
}

// findVote relies on the one-vote-per-principal invariant and returns the first match.
func findVote(votes []Vote, viewer Principal) (VoteType, bool) {
	if viewer.IsZero() {
		return "", false
	}
	for _, v := range votes {
		if v.Voter == viewer {
			return v.Type, true
		}
	}
	return "", false
}

func walkComments(comments []Comment, fn func(Comment)) {
	for _, c := range comments {
		fn(c)
		walkComments(c.Replies, fn)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
