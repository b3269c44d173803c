package handlers

import (
	"ngosocial/internal/apperr"
	"ngosocial/internal/models"
	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"github.com/gin-gonic/gin"
)

// AccountHandler 个人资料与搜索，User 与 NGO 各一套路由
type AccountHandler struct {
	*Content
}

func NewAccountHandler(content *Content) *AccountHandler {
	return &AccountHandler{Content: content}
}

func (h *AccountHandler) UserProfile(c *gin.Context) {
	u, err := h.store.FindUser(c.Request.Context(), viewer(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, u)
}

func (h *AccountHandler) NgoProfile(c *gin.Context) {
	n, err := h.store.FindNgo(c.Request.Context(), viewer(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, n)
}

type updateUserRequest struct {
	FullName string `json:"fullName" binding:"required,max=100"`
}

func (h *AccountHandler) UpdateUser(c *gin.Context) {
	var in updateUserRequest
	if !bind(c, &in) {
		return
	}
	u, err := h.store.UpdateUser(c.Request.Context(), viewer(c).ID, store.UserProfile{FullName: in.FullName})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, u)
}

// updateNgoRequest 部分更新，未提供的字段保持不变
type updateNgoRequest struct {
	Name    string          `json:"name" binding:"omitempty,max=150"`
	Type    string          `json:"type" binding:"omitempty,max=50"`
	Phone   string          `json:"phone" binding:"omitempty,max=20"`
	Address *models.Address `json:"address"`
}

func (h *AccountHandler) UpdateNgo(c *gin.Context) {
	var in updateNgoRequest
	if !bind(c, &in) {
		return
	}
	n, err := h.store.UpdateNgo(c.Request.Context(), viewer(c).ID, store.NgoProfile{
		Name:    in.Name,
		Type:    in.Type,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, n)
}

func (h *AccountHandler) SearchUsers(c *gin.Context) {
	q := c.Query("fullName")
	if q == "" {
		fail(c, apperr.Validation("fullName is required"))
		return
	}
	users, err := h.store.SearchUsers(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Users(users))
}

func (h *AccountHandler) SearchNgos(c *gin.Context) {
	q := c.Query("name")
	if q == "" {
		fail(c, apperr.Validation("name is required"))
		return
	}
	ngos, err := h.store.SearchNgos(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Ngos(ngos))
}

// PointLogs 积分记录
func (h *AccountHandler) PointLogs(c *gin.Context) {
	logs, err := h.store.PointLogs(c.Request.Context(), viewer(c), utils.ClampLimit(c.Query("limit"), 50, 200))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, logs)
}

// AllUsers 按积分排序列出用户，附带投影后的帖子
func (h *AccountHandler) AllUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context(), utils.ClampLimit(c.Query("limit"), 50, 200))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Users(users))
}

func (h *AccountHandler) AllNgos(c *gin.Context) {
	ngos, err := h.store.ListNgos(c.Request.Context(), utils.ClampLimit(c.Query("limit"), 50, 200))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, h.projection(c).Ngos(ngos))
}
