package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// Handlers bundles every controller the API mounts
type Handlers struct {
	Auth          *controllers.AuthController
	Password      *controllers.PasswordController
	Products      *controllers.ProductController
	Customers     *controllers.CustomerController
	Sales         *controllers.SaleController
	Expenses      *controllers.ExpenseController
	Employees     *controllers.EmployeeController
	Categories    *controllers.CategoryController
	Locations     *controllers.LocationController
	Notifications *controllers.NotificationController
	Settings      *controllers.ShopSettingsController
	Dashboard     *controllers.DashboardController
}

// SetupRoutes configures all API routes. auth is the middleware chain that
// guards every non-public route.
func SetupRoutes(e *echo.Echo, h Handlers, auth ...echo.MiddlewareFunc) {
	RegisterAuthRoutes(e, h.Auth, h.Password, auth)
	RegisterProductRoutes(e, h.Products, auth)
	RegisterSalesRoutes(e, h.Sales, h.Customers, auth)
	RegisterExpenseRoutes(e, h.Expenses, auth)
	RegisterEmployeeRoutes(e, h.Employees, auth)
	RegisterCategoryRoutes(e, h.Categories, h.Locations, auth)
	RegisterNotificationRoutes(e, h.Notifications, auth)
	RegisterShopRoutes(e, h.Settings, h.Dashboard, auth)
}
