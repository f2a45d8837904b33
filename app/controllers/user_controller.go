package controllers

import (
	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/services"
	"github.com/resellbd/resell-api/pkg/ctx"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

// Store handles POST /users (signup). An existing email answers 200 with
// acknowledged=false.
func (c *UserController) Store(x *ctx.Context) {
	var user models.User
	if !x.BindJSON(&user) {
		return
	}

	out, err := c.service.Create(x.Context(), &user)
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(out.Body())
}

// Index handles GET /users, optionally filtered by ?email=.
func (c *UserController) Index(x *ctx.Context) {
	users, err := c.service.List(x.Context(), x.Query("email"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(users)
}

// MakeAdmin handles PUT /users/admin/{id}.
func (c *UserController) MakeAdmin(x *ctx.Context) {
	res, err := c.service.Promote(x.Context(), x.Param("id"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(res)
}

// Verify handles PUT /users/verify/{id}: the user and every product they
// listed are marked verified.
func (c *UserController) Verify(x *ctx.Context) {
	res, err := c.service.Verify(x.Context(), x.Param("id"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(res)
}

// Destroy handles DELETE /users/{id}.
func (c *UserController) Destroy(x *ctx.Context) {
	res, err := c.service.Delete(x.Context(), x.Param("id"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(res)
}
