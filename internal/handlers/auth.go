package handlers

import (
	"net/http"

	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required,max=100"`
}

type registerNgoRequest struct {
	Email   string         `json:"email" binding:"required,email"`
	Name    string         `json:"name" binding:"required,max=150"`
	Type    string         `json:"type" binding:"required,max=50"`
	Phone   string         `json:"phone" binding:"required,max=20"`
	Address models.Address `json:"address"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp" binding:"required,len=6,numeric"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type passwordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var in registerUserRequest
	if !bind(c, &in) {
		return
	}
	reg := services.Registration{Email: in.Email, FullName: in.FullName}
	if err := h.auth.Register(c.Request.Context(), engagement.KindUser, reg); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Please check your email for verification."})
}

func (h *AuthHandler) RegisterNgo(c *gin.Context) {
	var in registerNgoRequest
	if !bind(c, &in) {
		return
	}
	reg := services.Registration{Email: in.Email, Name: in.Name, Type: in.Type, Phone: in.Phone, Address: in.Address}
	if err := h.auth.Register(c.Request.Context(), engagement.KindNgo, reg); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Please check your email for verification."})
}

func (h *AuthHandler) Verify(kind engagement.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in verifyRequest
		if !bind(c, &in) {
			return
		}
		if err := h.auth.Verify(c.Request.Context(), kind, in.Email, in.Otp); err != nil {
			fail(c, err)
			return
		}
		respondMessage(c, "Account verified successfully.")
	}
}

func (h *AuthHandler) ResendOTP(kind engagement.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in emailRequest
		if !bind(c, &in) {
			return
		}
		if err := h.auth.ResendOTP(c.Request.Context(), kind, in.Email); err != nil {
			fail(c, err)
			return
		}
		respondMessage(c, "Please check your email for verification.")
	}
}

func (h *AuthHandler) SetPassword(kind engagement.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in passwordRequest
		if !bind(c, &in) {
			return
		}
		token, err := h.auth.SetPassword(c.Request.Context(), kind, in.Email, in.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully.", "token": token})
	}
}

func (h *AuthHandler) Login(kind engagement.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in passwordRequest
		if !bind(c, &in) {
			return
		}
		token, err := h.auth.Login(c.Request.Context(), kind, in.Email, in.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}
