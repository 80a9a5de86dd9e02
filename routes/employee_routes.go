package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterEmployeeRoutes is limited to the owner and managers
func RegisterEmployeeRoutes(e *echo.Echo, employeeController *controllers.EmployeeController, auth []echo.MiddlewareFunc) {
	employees := e.Group("/api/employees", auth...)
	employees.Use(middleware.RequireRole("manager"))

	employees.GET("", employeeController.GetEmployees)
	employees.POST("", employeeController.CreateEmployee)
	employees.PUT("/:id", employeeController.UpdateEmployee)
	employees.DELETE("/:id", employeeController.DeleteEmployee)
	employees.PATCH("/:id/pay-salary", employeeController.PaySalary)
}
