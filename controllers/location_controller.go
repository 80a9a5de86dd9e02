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

type LocationStore interface {
	Create(ctx context.Context, location *models.Location) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Location, error)
	ListWithStaff(ctx context.Context) ([]models.LocationView, error)
	FindViewByID(ctx context.Context, id primitive.ObjectID) (*models.LocationView, error)
	Replace(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// LocationController manages shop branches. Responses resolve the assigned
// staff member to name and role.
type LocationController struct {
	store LocationStore
	log   *logrus.Entry
}

func NewLocationController(store LocationStore, log *logrus.Entry) *LocationController {
	return &LocationController{store: store, log: log}
}

func (lc *LocationController) GetLocations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	locations, err := lc.store.ListWithStaff(ctx)
	if err != nil {
		return respondError(c, lc.log, err, "Failed to fetch locations")
	}
	return respond(c, http.StatusOK, "Locations retrieved successfully", locations)
}

func (lc *LocationController) CreateLocation(c echo.Context) error {
	var req models.LocationRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	staff, ok := staffID(req.AssignedStaff)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid assignedStaff ID")
	}

	location := &models.Location{
		Name:          strings.TrimSpace(req.Name),
		Address:       strings.TrimSpace(req.Address),
		Phone:         req.Phone,
		AssignedStaff: staff,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := lc.store.Create(ctx, location); err != nil {
		return respondError(c, lc.log, err, "Failed to create location")
	}
	return lc.respondView(c, ctx, location.ID, http.StatusCreated, "Location created successfully")
}

func (lc *LocationController) UpdateLocation(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid ID")
	}
	var req models.LocationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	location, err := lc.store.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Location not found")
	}
	if err != nil {
		return respondError(c, lc.log, err, "Failed to update location")
	}

	if v := strings.TrimSpace(req.Name); v != "" {
		location.Name = v
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		location.Address = v
	}
	if req.Phone != "" {
		location.Phone = req.Phone
	}
	if req.AssignedStaff != "" {
		staff, ok := staffID(req.AssignedStaff)
		if !ok {
			return fail(c, http.StatusBadRequest, "Invalid assignedStaff ID")
		}
		location.AssignedStaff = staff
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := lc.store.Replace(ctx, location); err != nil {
		return respondError(c, lc.log, err, "Failed to update location")
	}
	return lc.respondView(c, ctx, id, http.StatusOK, "Location updated successfully")
}

func (lc *LocationController) ToggleLocation(c echo.Context) error {
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

	location, err := lc.store.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Location not found")
	}
	if err != nil {
		return respondError(c, lc.log, err, "Failed to update location")
	}
	location.IsActive = toggled(location.IsActive, body.IsActive)
	if err := lc.store.Replace(ctx, location); err != nil {
		return respondError(c, lc.log, err, "Failed to update location")
	}
	return lc.respondView(c, ctx, id, http.StatusOK, "Location updated successfully")
}

func (lc *LocationController) DeleteLocation(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := lc.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Location not found")
		}
		return respondError(c, lc.log, err, "Failed to delete location")
	}
	return respond(c, http.StatusOK, "Deleted", nil)
}

func (lc *LocationController) respondView(c echo.Context, ctx context.Context, id primitive.ObjectID, status int, msg string) error {
	view, err := lc.store.FindViewByID(ctx, id)
	if err != nil {
		return respondError(c, lc.log, err, "Failed to fetch location")
	}
	return respond(c, status, msg, view)
}

// staffID parses an optional employee reference
func staffID(v string) (*primitive.ObjectID, bool) {
	if v == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return nil, false
	}
	return &id, true
}
