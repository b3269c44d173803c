package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// 统一响应格式：{success, data|message|token}
func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// fail hands err to middleware.ErrorHandler.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bind decodes the JSON body and runs binding validation. On failure it
// records a validation error and returns false.
func bind(c *gin.Context, in any) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		fail(c, apperr.Wrap(apperr.KindValidation, msg(err), err))
		return false
	}
	return true
}

func bindForm(c *gin.Context, in any) bool {
	if err := c.ShouldBind(in); err != nil {
		fail(c, apperr.Wrap(apperr.KindValidation, msg(err), err))
		return false
	}
	return true
}

func msg(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, lowerFirst(fe.Field())+" is "+fe.Tag())
		}
		return strings.Join(parts, ", ")
	}
	return "invalid request body"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// viewer is the authenticated principal. Every handler here sits behind
// middleware.Authenticate.
func viewer(c *gin.Context) engagement.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

// jsonField decodes an optional JSON-encoded multipart field into out.
func jsonField(raw string, out any, name string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return apperr.Validation(name + " must be valid JSON")
	}
	return nil
}
