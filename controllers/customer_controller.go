package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CustomerController serves permanent credit customers and their payments
type CustomerController struct {
	ledger *services.LedgerService
	log    *logrus.Entry
}

func NewCustomerController(ledger *services.LedgerService, log *logrus.Entry) *CustomerController {
	return &CustomerController{ledger: ledger, log: log}
}

func (cc *CustomerController) GetPermanentCustomers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	customers, err := cc.ledger.CustomersWithCredit(ctx)
	if err != nil {
		return respondError(c, cc.log, err, "Failed to fetch customers")
	}
	return respond(c, http.StatusOK, "Customers retrieved successfully", customers)
}

func (cc *CustomerController) CreatePermanentCustomer(c echo.Context) error {
	var req models.CustomerRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	addedBy := "System"
	if claims := middleware.GetUserFromToken(c); claims != nil {
		addedBy = claims.Role
	}
	customer, err := cc.ledger.CreateCustomer(ctx, req, addedBy)
	if err != nil {
		return respondError(c, cc.log, err, "Failed to create customer")
	}
	return respond(c, http.StatusCreated, "Customer created successfully", customer)
}

func (cc *CustomerController) GetCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	customer, err := cc.ledger.Customer(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, cc.log, err, "Failed to fetch customer")
	}
	return respond(c, http.StatusOK, "Customer retrieved successfully", customer)
}

// RecordPayment applies a payment against one of the customer's sales
func (cc *CustomerController) RecordPayment(c echo.Context) error {
	req, err := readPayment(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := cc.ledger.RecordPayment(ctx, c.Param("id"), req)
	if err != nil {
		return respondError(c, cc.log, err, "Failed to record payment")
	}
	return respond(c, http.StatusOK, "Payment recorded successfully", res)
}

// paymentBody accepts amount as a JSON number or a numeric string
type paymentBody struct {
	SaleID string          `json:"saleId"`
	Amount json.RawMessage `json:"amount"`
	Method string          `json:"method"`
	Detail string          `json:"detail"`
}

func readPayment(c echo.Context) (models.PaymentRequest, error) {
	var body paymentBody
	if err := c.Bind(&body); err != nil {
		return models.PaymentRequest{}, err
	}
	return models.PaymentRequest{
		SaleID: body.SaleID,
		Amount: paymentAmount(body.Amount),
		Method: body.Method,
		Detail: body.Detail,
	}, nil
}

// paymentAmount coerces the raw amount. Anything that is not a number comes
// back as 0 and is rejected by the ledger as an invalid amount.
func paymentAmount(raw json.RawMessage) float64 {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return utils.FloatOr(s, 0)
	}
	return utils.FloatOr(string(raw), 0)
}

// GetCustomerSales lists the customer's permanent sales, optionally between
// from and to (inclusive dates).
func (cc *CustomerController) GetCustomerSales(c echo.Context) error {
	from, err := optionalDate(c.QueryParam("from"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid from date")
	}
	to, err := optionalDate(c.QueryParam("to"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid to date")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	sales, err := cc.ledger.CustomerSales(ctx, c.Param("id"), from, to)
	if err != nil {
		return respondError(c, cc.log, err, "Failed to fetch customer sales")
	}
	return respond(c, http.StatusOK, "Sales retrieved successfully", sales)
}

// optionalDate parses a YYYY-MM-DD or RFC3339 query value in local time
func optionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	t = t.In(time.Local)
	return &t, nil
}
