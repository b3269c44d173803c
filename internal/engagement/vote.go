package engagement

import "fmt"

type VoteType string

const (
	Upvote   VoteType = "UPVOTE"
	Downvote VoteType = "DOWNVOTE"
)

func ParseVoteType(s string) (VoteType, error) {
	switch VoteType(s) {
	case Upvote:
		return Upvote, nil
	case Downvote:
		return Downvote, nil
	}
	return "", fmt.Errorf("invalid vote type %q", s)
}

// VoteState 某个 (目标, Principal) 组合当前的投票状态
type VoteState int

const (
	NoVote VoteState = iota
	Upvoted
	Downvoted
)

func (s VoteState) String() string {
	switch s {
	case Upvoted:
		return "upvoted"
	case Downvoted:
		return "downvoted"
	}
	return "none"
}

// StateOf maps a stored vote type to its state; an empty type means no vote.
func StateOf(t VoteType) VoteState {
	switch t {
	case Upvote:
		return Upvoted
	case Downvote:
		return Downvoted
	}
	return NoVote
}

// VoteType returns the vote type a state stores, or "" for NoVote.
func (s VoteState) VoteType() VoteType {
	switch s {
	case Upvoted:
		return Upvote
	case Downvoted:
		return Downvote
	}
	return ""
}

// VoteAction 存储层需要执行的写操作
type VoteAction string

const (
	VoteCreate VoteAction = "create"
	VoteUpdate VoteAction = "update"
	VoteDelete VoteAction = "delete"
)

// ApplyVote 切换语义：同类型再投一次即撤销，不同类型则原地改票
func ApplyVote(current VoteState, requested VoteType) (VoteState, VoteAction) {
	want := StateOf(requested)
	switch {
	case current == NoVote:
		return want, VoteCreate
	case current == want:
		return NoVote, VoteDelete
	default:
		return want, VoteUpdate
	}
}
