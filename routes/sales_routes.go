package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterSalesRoutes mounts sales, the sales report and the credit
// customers whose balances the sales drive.
func RegisterSalesRoutes(e *echo.Echo, saleController *controllers.SaleController, customerController *controllers.CustomerController, auth []echo.MiddlewareFunc) {
	sales := e.Group("/api/sales", auth...)

	// report routes come before /:id
	sales.GET("/report", saleController.GetReport)
	sales.GET("/report/export", saleController.ExportReport)

	sales.POST("", saleController.CreateSale)
	sales.GET("", saleController.GetSales)
	sales.GET("/:id", saleController.GetSale)
	sales.PATCH("/:id", saleController.UpdateSale)

	customers := e.Group("/api/customers", auth...)
	customers.GET("/permanent", customerController.GetPermanentCustomers)
	customers.POST("/permanent", customerController.CreatePermanentCustomer)
	customers.GET("/:id", customerController.GetCustomer)
	customers.POST("/:id/payment", customerController.RecordPayment)
	customers.GET("/:id/sales", customerController.GetCustomerSales)
}
