package controllers

import (
	"errors"

	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/ctx"
)

// AuthController hands out access tokens.
type AuthController struct {
	tokens *auth.TokenService
}

func NewAuthController(tokens *auth.TokenService) *AuthController {
	return &AuthController{tokens: tokens}
}

// Token handles POST /jwt. The body is the identity to sign; only email is
// required.
func (a *AuthController) Token(c *ctx.Context) {
	var body auth.Identity
	if !c.BindValid(&body) {
		return
	}

	token, err := a.tokens.Issue(body)
	if errors.Is(err, auth.ErrMissingEmail) {
		c.BadRequest("email is required")
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]string{"token": token})
}
