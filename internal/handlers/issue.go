package handlers

import (
	"ngosocial/internal/models"

	"github.com/gin-gonic/gin"
)

type IssueHandler struct {
	*Content
}

func NewIssueHandler(content *Content) *IssueHandler {
	return &IssueHandler{Content: content}
}

// Create 议题的媒体文件可选
func (h *IssueHandler) Create(c *gin.Context) {
	var form contentForm
	if !bindForm(c, &form) {
		return
	}
	addr, tags, err := form.decode()
	if err != nil {
		fail(c, err)
		return
	}
	files, err := mediaFiles(c, false)
	if err != nil {
		fail(c, err)
		return
	}

	owner := viewer(c)
	issue := &models.Issue{Title: form.Title, Description: form.Description, Address: addr, Tags: tags, Media: []models.Media{}}
	issue.OwnUserID, issue.OwnNgoID = owner.Refs()

	ctx := c.Request.Context()
	err = h.uploader.CreateWithMedia(ctx, "issue", owner, files, func(media []models.Media) error {
		if len(media) > 0 {
			issue.Media = media
		}
		return h.store.CreateIssue(ctx, issue)
	})
	if err != nil {
		fail(c, err)
		return
	}
	issue.DescriptionHTML = renderDescription(issue.Description)
	respondCreated(c, h.projection(c).Issue(issue))
}

// List 支持 ?query= 按标题过滤
func (h *IssueHandler) List(c *gin.Context) {
	issues, err := h.store.ListIssues(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	for i := range issues {
		issues[i].DescriptionHTML = renderDescription(issues[i].Description)
	}
	respond(c, h.projection(c).Issues(issues))
}

func (h *IssueHandler) Get(c *gin.Context) {
	id := c.Param("id")
	issue, err := cached(h.Content, models.TargetIssue, id, func() (*models.Issue, error) {
		i, err := h.store.FindIssue(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		i.DescriptionHTML = renderDescription(i.Description)
		return i, nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Issue(issue))
}
