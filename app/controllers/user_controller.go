package controllers

import (
	"errors"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/ctx"
)

type UserController struct {
	users repositories.UserRepository
}

func NewUserController(users repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

func (u *UserController) Index(c *ctx.Context) {
	users, err := u.users.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(users)
}

// Show answers with the user or null.
func (u *UserController) Show(c *ctx.Context) {
	user, err := u.users.FindByEmail(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(user)
}

// existsReply is sent when POST /users names a registered email.
type existsReply struct {
	Message    string     `json:"message"`
	InsertedID *models.ID `json:"insertedId"`
}

// Store registers a user on first sign-in. Every new user is a member
// whatever the body says.
func (u *UserController) Store(c *ctx.Context) {
	var body models.User
	if !c.BindValid(&body) {
		return
	}

	user := &models.User{Name: body.Name, Email: body.Email, Photo: body.Photo, Role: models.RoleMember}
	res, err := u.users.Create(c.Context(), user)
	if errors.Is(err, repositories.ErrUserExists) {
		c.OK(existsReply{Message: "user already exists"})
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(res)
}

// AdminCheck tells callers whether they themselves are admins. Asking about
// anyone else is forbidden.
func (u *UserController) AdminCheck(c *ctx.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	if c.Param("email") != email {
		c.Forbidden()
		return
	}

	user, err := u.users.FindByEmail(c.Context(), email)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]bool{"admin": user.IsAdmin()})
}

func (u *UserController) Promote(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := u.users.SetRole(c.Context(), id, models.RoleAdmin)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Log().Info("user promoted", "user_id", id, "matched", res.MatchedCount)
	c.OK(res)
}
