package handlers

import (
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/models"

	"github.com/gin-gonic/gin"
)

type FundRaisingHandler struct {
	*Content
}

func NewFundRaisingHandler(content *Content) *FundRaisingHandler {
	return &FundRaisingHandler{Content: content}
}

type fundRaisingForm struct {
	contentForm
	StartDate time.Time `form:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `form:"endDate" binding:"required" time_format:"2006-01-02"`
	Amount    float64   `form:"amount" binding:"required,gt=0"`
}

func (h *FundRaisingHandler) Create(c *gin.Context) {
	var form fundRaisingForm
	if !bindForm(c, &form) {
		return
	}
	if form.EndDate.Before(form.StartDate) {
		fail(c, apperr.Validation("endDate must not be before startDate"))
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
	f := &models.FundRaising{
		Title:       form.Title,
		Description: form.Description,
		StartDate:   form.StartDate,
		EndDate:     form.EndDate,
		Address:     addr,
		Amount:      form.Amount,
		Tags:        tags,
	}
	f.OwnUserID, f.OwnNgoID = owner.Refs()

	ctx := c.Request.Context()
	err = h.uploader.CreateWithMedia(ctx, "fundraising", owner, files, func(media []models.Media) error {
		f.Media = media
		return h.store.CreateFundRaising(ctx, f)
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, h.projection(c).FundRaising(f))
}

func (h *FundRaisingHandler) List(c *gin.Context) {
	out, err := h.store.ListFundRaisings(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).FundRaisings(out))
}

func (h *FundRaisingHandler) Get(c *gin.Context) {
	f, err := h.store.FindFundRaising(c.Request.Context(), c.Param("fundRaisingId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).FundRaising(f))
}
