package controllers

import (
	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/ctx"
)

type MenuController struct {
	menu   repositories.MenuRepository
	events Publisher
}

func NewMenuController(menu repositories.MenuRepository, events Publisher) *MenuController {
	return &MenuController{menu: menu, events: events}
}

func (m *MenuController) Index(c *ctx.Context) {
	items, err := m.menu.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(items)
}

func (m *MenuController) Show(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := m.menu.FindByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(item)
}

// ByEmail lists the items distributed by one admin.
func (m *MenuController) ByEmail(c *ctx.Context) {
	items, err := m.menu.FindByEmail(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(items)
}

func (m *MenuController) Store(c *ctx.Context) {
	var body models.MealDetails
	if !c.BindJSON(&body) {
		return
	}
	item := &models.MenuItem{MealDetails: body}
	res, err := m.menu.Create(c.Context(), item)
	if err != nil {
		c.Fail(err)
		return
	}
	m.events.Fire(EventMenuCreated, item)
	c.OK(res)
}

// Update replaces every descriptive field. Fields missing from the body are
// stored as zero values.
func (m *MenuController) Update(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body models.MealDetails
	if !c.BindJSON(&body) {
		return
	}
	res, err := m.menu.Replace(c.Context(), id, body)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(res)
}

func (m *MenuController) Like(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := m.menu.Like(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(res)
}

func (m *MenuController) Destroy(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := m.menu.Delete(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if res.DeletedCount > 0 {
		m.events.Fire(EventMenuDeleted, idPayload{ID: id})
	}
	c.OK(res)
}
