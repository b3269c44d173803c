package handlers

import (
	"ngosocial/internal/models"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	*Content
}

func NewPostHandler(content *Content) *PostHandler {
	return &PostHandler{Content: content}
}

// Create 发布帖子，至少需要一个媒体文件
func (h *PostHandler) Create(c *gin.Context) {
	var form contentForm
	if !bindForm(c, &form) {
		return
	}
	addr, tags, err := form.decode()
	if err != nil {
		fail(c, err)
		return
	}
	files, err := mediaFiles(c, true)
	if err != nil {
		fail(c, err)
		return
	}

	owner := viewer(c)
	post := &models.Post{Title: form.Title, Description: form.Description, Address: addr, Tags: tags}
	post.OwnUserID, post.OwnNgoID = owner.Refs()

	ctx := c.Request.Context()
	err = h.uploader.CreateWithMedia(ctx, "post", owner, files, func(media []models.Media) error {
		post.Media = media
		return h.store.CreatePost(ctx, post)
	})
	if err != nil {
		fail(c, err)
		return
	}
	post.DescriptionHTML = renderDescription(post.Description)
	respondCreated(c, h.projection(c).Post(post))
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	for i := range posts {
		posts[i].DescriptionHTML = renderDescription(posts[i].Description)
	}
	respond(c, h.projection(c).Posts(posts))
}

func (h *PostHandler) Get(c *gin.Context) {
	id := c.Param("id")
	post, err := cached(h.Content, models.TargetPost, id, func() (*models.Post, error) {
		p, err := h.store.FindPost(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		p.DescriptionHTML = renderDescription(p.Description)
		return p, nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Post(post))
}
