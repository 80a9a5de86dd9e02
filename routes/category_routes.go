package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterCategoryRoutes sets up product categories and shop locations
func RegisterCategoryRoutes(e *echo.Echo, categoryController *controllers.CategoryController, locationController *controllers.LocationController, auth []echo.MiddlewareFunc) {
	categories := e.Group("/api/categories", auth...)
	categories.GET("", categoryController.GetAllCategories)
	categories.POST("", categoryController.CreateCategory)
	categories.PUT("/:id", categoryController.UpdateCategory)
	categories.PATCH("/:id/toggle", categoryController.ToggleCategory)
	categories.DELETE("/:id", categoryController.DeleteCategory)

	locations := e.Group("/api/locations", auth...)
	locations.GET("", locationController.GetLocations)
	locations.POST("", locationController.CreateLocation)
	locations.PUT("/:id", locationController.UpdateLocation)
	locations.PATCH("/:id/toggle", locationController.ToggleLocation)
	locations.DELETE("/:id", locationController.DeleteLocation)
}
