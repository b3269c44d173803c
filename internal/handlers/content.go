package handlers

import (
	"html/template"
	"mime/multipart"
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/services"
	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// graphTTL 详情页实体图缓存时间；投影每次请求重新计算
const graphTTL = time.Minute

// Content 帖子、议题、活动、筹款的共用依赖
type Content struct {
	store     *store.Store
	uploader  *services.Uploader
	projector engagement.Projector
	cache     *utils.GlobalCache
	log       *zap.Logger
}

func NewContent(s *store.Store, uploader *services.Uploader, projector engagement.Projector, cache *utils.GlobalCache, log *zap.Logger) *Content {
	return &Content{store: s, uploader: uploader, projector: projector, cache: cache, log: log}
}

func (h *Content) projection(c *gin.Context) Projection {
	return Projection{viewer: viewer(c), projector: h.projector}
}

func listQuery(c *gin.Context) store.ListQuery {
	return store.ListQuery{
		Sort:  c.DefaultQuery("sort", store.SortNew),
		Title: c.Query("query"),
		Limit: utils.ClampLimit(c.Query("limit"), 50, 100),
	}
}

func renderDescription(s string) template.HTML {
	return utils.RenderMarkdown(s)
}

// cached loads a graph through the shared cache. A graph invalidated while
// it was loading is returned but not stored.
func cached[T any](h *Content, kind, id string, load func() (*T, error)) (*T, error) {
	key := utils.GraphKey(kind, id)
	if v, ok := h.cache.Get(key).(*T); ok {
		return v, nil
	}
	gen := h.cache.Generation(key)
	v, err := load()
	if err != nil {
		return nil, err
	}
	h.cache.SetIfGeneration(key, gen, v, graphTTL)
	return v, nil
}

// contentForm 帖子 / 议题的 multipart 表单；address 和 tags 为 JSON 字符串
type contentForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Address     string `form:"address"`
	Tags        string `form:"tags"`
}

func (f contentForm) decode() (models.Address, []string, error) {
	var addr models.Address
	tags := []string{}
	if err := jsonField(f.Address, &addr, "address"); err != nil {
		return addr, nil, err
	}
	if err := jsonField(f.Tags, &tags, "tags"); err != nil {
		return addr, nil, err
	}
	return addr, tags, nil
}

func mediaFiles(c *gin.Context, required bool) ([]services.File, error) {
	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File["media"]
	}
	if required && len(headers) == 0 {
		return nil, apperr.Validation("at least one media file is required")
	}
	return services.FilesFromMultipart(headers), nil
}
