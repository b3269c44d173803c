package handlers

import (
	"net/http"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/services"
	"ngosocial/internal/store"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voter *services.Voter
}

func NewVoteHandler(voter *services.Voter) *VoteHandler {
	return &VoteHandler{voter: voter}
}

// voteRequest 不同路由用不同的 id 字段：postId / issueId / commentId
type voteRequest struct {
	PostID    string `json:"postId"`
	IssueID   string `json:"issueId"`
	CommentID string `json:"commentId"`
	VoteType  string `json:"voteType" binding:"required,oneof=UPVOTE DOWNVOTE"`
}

func (r voteRequest) targetID(targetType string) (string, string) {
	switch targetType {
	case models.TargetPost:
		return r.PostID, "postId"
	case models.TargetIssue:
		return r.IssueID, "issueId"
	}
	return r.CommentID, "commentId"
}

// Mutate toggles the caller's vote on a target of targetType.
func (h *VoteHandler) Mutate(targetType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in voteRequest
		if !bind(c, &in) {
			return
		}
		id, field := in.targetID(targetType)
		if id == "" {
			fail(c, apperr.Validation(field+" is required"))
			return
		}
		want, err := engagement.ParseVoteType(in.VoteType)
		if err != nil {
			fail(c, apperr.Validation(err.Error()))
			return
		}

		res, err := h.voter.Toggle(c.Request.Context(), store.Target{Type: targetType, ID: id}, viewer(c), want)
		if err != nil {
			fail(c, err)
			return
		}
		switch res.Action {
		case engagement.VoteDelete:
			respondMessage(c, "Vote deleted.")
		case engagement.VoteCreate:
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"voteType": res.State.VoteType(), "action": res.Action}})
		default:
			respond(c, gin.H{"voteType": res.State.VoteType(), "action": res.Action})
		}
	}
}
