package middleware

import (
	"context"
	"strings"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"

	"github.com/gin-gonic/gin"
)

const PrincipalKey = "principal"

type TokenParser interface {
	Parse(raw string) (engagement.Principal, error)
}

type AccountChecker interface {
	Exists(ctx context.Context, p engagement.Principal) (bool, error)
}

// Authenticate 校验 Bearer 令牌并确认账号仍然存在，然后把 Principal 放入上下文
func Authenticate(tokens TokenParser, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, apperr.Authentication("missing bearer token"))
			return
		}
		p, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			abort(c, err)
			return
		}
		exists, err := accounts.Exists(c.Request.Context(), p)
		if err != nil {
			abort(c, err)
			return
		}
		if !exists {
			abort(c, apperr.NotFound("account not found"))
			return
		}
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// RequireRole rejects principals of another kind, e.g. an NGO token on a /user route.
func RequireRole(kind engagement.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			abort(c, apperr.Authentication("not authenticated"))
			return
		}
		if p.Kind != kind {
			abort(c, apperr.Authorization("this route requires a "+strings.ToLower(string(kind))+" account"))
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated principal, if any.
func CurrentPrincipal(c *gin.Context) (engagement.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return engagement.Principal{}, false
	}
	p, ok := v.(engagement.Principal)
	return p, ok
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
