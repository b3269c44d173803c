package handlers

import (
	"ngosocial/internal/apperr"
	"ngosocial/internal/models"
	"ngosocial/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commenter *services.Commenter
}

func NewCommentHandler(commenter *services.Commenter) *CommentHandler {
	return &CommentHandler{commenter: commenter}
}

type commentRequest struct {
	PostID   string  `json:"postId"`
	IssueID  string  `json:"issueId"`
	Comment  string  `json:"comment" binding:"required,max=5000"`
	ParentID *string `json:"parentId"`
}

// Create 帖子评论是平铺的；议题评论可带 parentId 回复顶层评论
func (h *CommentHandler) Create(targetType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in commentRequest
		if !bind(c, &in) {
			return
		}
		comment := &models.Comment{TargetType: targetType, Body: in.Comment}
		switch targetType {
		case models.TargetPost:
			if in.ParentID != nil && *in.ParentID != "" {
				fail(c, apperr.Validation("replies are only allowed on issues"))
				return
			}
			comment.TargetID = in.PostID
		case models.TargetIssue:
			comment.TargetID = in.IssueID
			comment.ParentID = in.ParentID
		}
		if comment.TargetID == "" {
			fail(c, apperr.Validation(targetType+"Id is required"))
			return
		}

		if err := h.commenter.Create(c.Request.Context(), viewer(c), comment); err != nil {
			fail(c, err)
			return
		}
		respondCreated(c, comment)
	}
}
