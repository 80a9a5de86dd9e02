package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	NameTaken(ctx context.Context, name string, exclude primitive.ObjectID) (bool, error)
	Replace(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryController struct {
	store CategoryStore
	log   *logrus.Entry
}

func NewCategoryController(store CategoryStore, log *logrus.Entry) *CategoryController {
	return &CategoryController{store: store, log: log}
}

type categoryBody struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

type toggleBody struct {
	IsActive *bool `json:"isActive"`
}

// GetAllCategories lists categories by name
func (cc *CategoryController) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	categories, err := cc.store.List(ctx)
	if err != nil {
		return respondError(c, cc.log, err, "Server error")
	}
	return respond(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// CreateCategory rejects names that match an existing one ignoring case
func (cc *CategoryController) CreateCategory(c echo.Context) error {
	var body categoryBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Name required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	taken, err := cc.store.NameTaken(ctx, name, primitive.NilObjectID)
	if err != nil {
		return respondError(c, cc.log, err, "Failed to save")
	}
	if taken {
		return fail(c, http.StatusBadRequest, "Category already exists")
	}

	category := &models.Category{Name: name, IsActive: body.IsActive == nil || *body.IsActive}
	if err := cc.store.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fail(c, http.StatusBadRequest, "Category already exists")
		}
		return respondError(c, cc.log, err, "Failed to save")
	}
	return respond(c, http.StatusCreated, "Category created successfully", category)
}

func (cc *CategoryController) UpdateCategory(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid ID")
	}
	var body categoryBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	category, err := cc.store.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Not found")
	}
	if err != nil {
		return respondError(c, cc.log, err, "Update failed")
	}

	if name := strings.TrimSpace(body.Name); name != "" && name != category.Name {
		taken, err := cc.store.NameTaken(ctx, name, id)
		if err != nil {
			return respondError(c, cc.log, err, "Update failed")
		}
		if taken {
			return fail(c, http.StatusBadRequest, "Category already exists")
		}
		category.Name = name
	}
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}

	if err := cc.store.Replace(ctx, category); err != nil {
		return respondError(c, cc.log, err, "Update failed")
	}
	return respond(c, http.StatusOK, "Category updated successfully", category)
}

// ToggleCategory sets isActive from the body, or flips it when omitted
func (cc *CategoryController) ToggleCategory(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid ID")
	}
	var body toggleBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	category, err := cc.store.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Not found")
	}
	if err != nil {
		return respondError(c, cc.log, err, "Toggle failed")
	}
	category.IsActive = toggled(category.IsActive, body.IsActive)
	if err := cc.store.Replace(ctx, category); err != nil {
		return respondError(c, cc.log, err, "Toggle failed")
	}
	return respond(c, http.StatusOK, "Category updated successfully", category)
}

func (cc *CategoryController) DeleteCategory(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := cc.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Not found")
		}
		return respondError(c, cc.log, err, "Delete failed")
	}
	return respond(c, http.StatusOK, "Deleted", nil)
}

func toggled(current bool, requested *bool) bool {
	if requested != nil {
		return *requested
	}
	return !current
}
