package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const logoFolder = "logo"

type SettingsStore interface {
	Get(ctx context.Context) (*models.ShopSettings, error)
	Save(ctx context.Context, settings *models.ShopSettings) error
}

// ShopSettingsController reads and writes the single shop settings document
type ShopSettingsController struct {
	store  SettingsStore
	images utils.ImageStore
	log    *logrus.Entry
}

func NewShopSettingsController(store SettingsStore, images utils.ImageStore, log *logrus.Entry) *ShopSettingsController {
	return &ShopSettingsController{store: store, images: images, log: log}
}

// GetSettings is public so the storefront can render name and theme
func (sc *ShopSettingsController) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	settings, err := sc.store.Get(ctx)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to load settings")
	}
	return respond(c, http.StatusOK, "Settings retrieved successfully", settings)
}

// SaveSettings accepts JSON or a multipart form with an optional logo file
func (sc *ShopSettingsController) SaveSettings(c echo.Context) error {
	if !isMultipart(c) {
		return sc.UpdateSettings(c)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	str := func(key string) *string {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return nil
		}
		return &vals[0]
	}
	req := models.ShopSettingsRequest{
		ShopName: str("shopName"),
		Address:  str("address"),
		Location: str("location"),
		Phone:    str("phone"),
		WhatsApp: str("whatsapp"),
		Email:    str("email"),
		About:    str("about"),
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	var logo string
	if files := form.File["logo"]; len(files) > 0 {
		logo, err = sc.images.Save(files[0], logoFolder)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
	}
	return sc.save(c, req, logo)
}

// UpdateSettings is the JSON-only form of SaveSettings
func (sc *ShopSettingsController) UpdateSettings(c echo.Context) error {
	var req models.ShopSettingsRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	return sc.save(c, req, "")
}

func (sc *ShopSettingsController) save(c echo.Context, req models.ShopSettingsRequest, logo string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	settings, err := sc.store.Get(ctx)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to save settings")
	}
	oldLogo := settings.Logo
	applySettings(settings, req)
	if logo != "" {
		settings.Logo = logo
	}

	if err := sc.store.Save(ctx, settings); err != nil {
		return respondError(c, sc.log, err, "Failed to save settings")
	}
	if logo != "" && oldLogo != "" && oldLogo != logo {
		if err := sc.images.Remove(oldLogo); err != nil {
			sc.log.WithError(err).Warn("Failed to remove replaced logo")
		}
	}
	return respond(c, http.StatusOK, "Settings saved successfully", settings)
}

func applySettings(s *models.ShopSettings, req models.ShopSettingsRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&s.ShopName, req.ShopName)
	set(&s.Address, req.Address)
	set(&s.Location, req.Location)
	set(&s.Phone, req.Phone)
	set(&s.WhatsApp, req.WhatsApp)
	set(&s.Email, req.Email)
	set(&s.About, req.About)
	set(&s.Logo, req.Logo)
	if req.Theme != nil {
		if req.Theme.Mode != "" {
			s.Theme.Mode = req.Theme.Mode
		}
		if req.Theme.Primary != "" {
			s.Theme.Primary = req.Theme.Primary
		}
		if req.Theme.Secondary != "" {
			s.Theme.Secondary = req.Theme.Secondary
		}
	}
}
