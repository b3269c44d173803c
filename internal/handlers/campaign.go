package handlers

import (
	"net/http"
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/services"
	"ngosocial/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	*Content
	membership *services.Membership
}

func NewCampaignHandler(content *Content, membership *services.Membership) *CampaignHandler {
	return &CampaignHandler{Content: content, membership: membership}
}

type campaignForm struct {
	contentForm
	Motto         string    `form:"motto"`
	StartDate     time.Time `form:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate       time.Time `form:"endDate" binding:"required" time_format:"2006-01-02"`
	Virtual       bool      `form:"virtual"`
	FundsRequired float64   `form:"fundsRequired" binding:"gte=0"`
}

func (h *CampaignHandler) Create(c *gin.Context) {
	var form campaignForm
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
	campaign := &models.Campaign{
		Title:         form.Title,
		Description:   form.Description,
		Motto:         form.Motto,
		StartDate:     form.StartDate,
		EndDate:       form.EndDate,
		Address:       addr,
		Virtual:       form.Virtual,
		FundsRequired: form.FundsRequired,
		Tags:          tags,
	}
	campaign.OwnUserID, campaign.OwnNgoID = owner.Refs()

	ctx := c.Request.Context()
	err = h.uploader.CreateWithMedia(ctx, "campaign", owner, files, func(media []models.Media) error {
		campaign.Media = media
		return h.store.CreateCampaign(ctx, campaign)
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, h.projection(c).Campaign(campaign))
}

func (h *CampaignHandler) List(c *gin.Context) {
	q := listQuery(c)
	q.Sort = store.SortNew
	campaigns, err := h.store.ListCampaigns(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Campaigns(campaigns))
}

func (h *CampaignHandler) Get(c *gin.Context) {
	id := c.Param("campaignId")
	campaign, err := cached(h.Content, string(engagement.KindCampaign), id, func() (*models.Campaign, error) {
		return h.store.FindCampaign(c.Request.Context(), id)
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Campaign(campaign))
}

// Mutate 加入或退出活动
func (h *CampaignHandler) Mutate(c *gin.Context) {
	member, action, err := h.membership.Toggle(c.Request.Context(), c.Param("campaignId"), viewer(c))
	if err != nil {
		fail(c, err)
		return
	}
	message := "Joined campaign."
	if action == engagement.MembershipLeave {
		message = "Left campaign."
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": gin.H{"isJoined": member, "action": action}})
}

// ForceLeave removes a member; memberKind is the kind of the removed member.
func (h *CampaignHandler) ForceLeave(memberKind engagement.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		member := engagement.Principal{Kind: memberKind, ID: c.Param("memberId")}
		if err := h.membership.ForceLeave(c.Request.Context(), c.Param("campaignId"), viewer(c), member); err != nil {
			fail(c, err)
			return
		}
		respondMessage(c, "Member removed from campaign.")
	}
}

type broadcastRequest struct {
	CampaignID string `json:"campaignId" binding:"required"`
	Message    string `json:"message" binding:"required,max=2000"`
}

func (h *CampaignHandler) Broadcast(c *gin.Context) {
	var in broadcastRequest
	if !bind(c, &in) {
		return
	}
	ctx := c.Request.Context()
	campaign, err := h.store.FindCampaign(ctx, in.CampaignID)
	if err != nil {
		fail(c, err)
		return
	}
	if campaign.Owner() != viewer(c) {
		fail(c, apperr.Authorization("not authorized to broadcast message"))
		return
	}
	b := &models.CampaignBroadcast{CampaignID: campaign.ID, Message: in.Message}
	if err := h.store.CreateBroadcast(ctx, b); err != nil {
		fail(c, err)
		return
	}
	h.invalidateCampaign(campaign.ID)
	respondCreated(c, b)
}

func (h *CampaignHandler) DeleteBroadcast(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.store.FindBroadcast(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	campaign, err := h.store.FindCampaign(ctx, b.CampaignID)
	if err != nil {
		fail(c, err)
		return
	}
	if campaign.Owner() != viewer(c) {
		fail(c, apperr.Authorization("not authorized to delete broadcast"))
		return
	}
	if err := h.store.DeleteBroadcast(ctx, b); err != nil {
		fail(c, err)
		return
	}
	h.invalidateCampaign(campaign.ID)
	h.log.Info("broadcast deleted", zap.String("broadcast", b.ID), zap.String("campaign", campaign.ID))
	respondMessage(c, "Broadcast deleted.")
}

func (h *CampaignHandler) invalidateCampaign(id string) {
	h.cache.InvalidateGraph(string(engagement.KindCampaign), id)
}
