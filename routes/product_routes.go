package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterProductRoutes(e *echo.Echo, productController *controllers.ProductController, auth []echo.MiddlewareFunc) {
	products := e.Group("/api/products", auth...)

	products.GET("", productController.GetProducts)
	products.GET("/low-stock", productController.GetLowStock)
	products.GET("/:id", productController.GetProduct)
	products.GET("/:id/barcode", productController.GetBarcode)
	products.POST("", productController.CreateProduct) // JSON or multipart with image
	products.PUT("/:id", productController.UpdateProduct)
	products.DELETE("/:id", productController.DeleteProduct)
}

func RegisterExpenseRoutes(e *echo.Echo, expenseController *controllers.ExpenseController, auth []echo.MiddlewareFunc) {
	expenses := e.Group("/api/expenses", auth...)

	expenses.GET("", expenseController.GetExpenses)
	expenses.GET("/summary", expenseController.GetSummary)
	expenses.GET("/export", expenseController.ExportExpenses)
	expenses.POST("", expenseController.CreateExpense)
	expenses.PUT("/:id", expenseController.UpdateExpense)
	expenses.DELETE("/:id", expenseController.DeleteExpense)
}
