package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories"
	"github.com/HSouheill/shop_backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func fail(c echo.Context, status int, message string) error {
	return respond(c, status, message, nil)
}

var kindStatus = map[services.Kind]int{
	services.KindBadRequest:   http.StatusBadRequest,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindForbidden:    http.StatusForbidden,
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
}

// respondError maps service and repository errors to a status. Internal
// errors are logged and reported as fallback with the underlying message
// under data.error.
func respondError(c echo.Context, log *logrus.Entry, err error, fallback string) error {
	if status, ok := kindStatus[services.KindOf(err)]; ok {
		return fail(c, status, err.Error())
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return fail(c, http.StatusBadRequest, "Already exists")
	}
	log.WithError(err).WithField("path", c.Path()).Error(fallback)
	return respond(c, http.StatusInternalServerError, fallback, map[string]string{"error": err.Error()})
}

// bindAndValidate binds the body into req and runs the echo validator. It
// returns a client-facing message, or "" when req is usable.
func bindAndValidate(c echo.Context, req interface{}) string {
	if err := c.Bind(req); err != nil {
		return "Invalid request body"
	}
	if err := c.Validate(req); err != nil {
		return validationMessage(err)
	}
	return ""
}

// validationMessage turns validator errors into one readable line
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of: "+fe.Param())
		case "min", "len":
			msgs = append(msgs, fe.Field()+" must have length "+fe.Tag()+" "+fe.Param())
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// paramID parses the :id path parameter
func paramID(c echo.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	return id, err == nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
