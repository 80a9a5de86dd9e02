package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/HSouheill/shop_backend/excel"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExpenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error)
	List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	Replace(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SummaryByType(ctx context.Context, filter models.ExpenseFilter) (models.ExpenseSummary, error)
}

type ExpenseController struct {
	store ExpenseStore
	log   *logrus.Entry
}

func NewExpenseController(store ExpenseStore, log *logrus.Entry) *ExpenseController {
	return &ExpenseController{store: store, log: log}
}

// expenseFilter reads start, end and type. Either date may be given alone;
// end covers its whole day.
func expenseFilter(c echo.Context) (models.ExpenseFilter, error) {
	filter := models.ExpenseFilter{Type: c.QueryParam("type")}
	start, err := optionalDate(c.QueryParam("start"))
	if err != nil {
		return filter, services.BadRequest("Invalid start date")
	}
	end, err := optionalDate(c.QueryParam("end"))
	if err != nil {
		return filter, services.BadRequest("Invalid end date")
	}
	if end != nil {
		e := services.EndOfDay(*end)
		end = &e
	}
	filter.Start, filter.End = start, end
	return filter, nil
}

func (ec *ExpenseController) GetExpenses(c echo.Context) error {
	filter, err := expenseFilter(c)
	if err != nil {
		return respondError(c, ec.log, err, "Server error")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	expenses, err := ec.store.List(ctx, filter)
	if err != nil {
		return respondError(c, ec.log, err, "Server error")
	}
	return respond(c, http.StatusOK, "Expenses retrieved successfully", expenses)
}

func (ec *ExpenseController) CreateExpense(c echo.Context) error {
	var req models.ExpenseRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	expense := &models.Expense{
		Type:          req.Type,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        *req.Amount,
		Employee:      req.Employee,
		Date:          time.Now(),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}
	if expense.PaymentMethod == "" {
		expense.PaymentMethod = "cash"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := ec.store.Create(ctx, expense); err != nil {
		return respondError(c, ec.log, err, "Failed to create expense")
	}
	return respond(c, http.StatusCreated, "Expense created successfully", expense)
}

func (ec *ExpenseController) UpdateExpense(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid ID")
	}
	var req models.UpdateExpenseRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	expense, err := ec.store.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Expense not found")
	}
	if err != nil {
		return respondError(c, ec.log, err, "Failed to update expense")
	}

	// empty strings keep the stored value
	keep := func(dst *string, src *string) {
		if src != nil && *src != "" {
			*dst = *src
		}
	}
	keep(&expense.Type, req.Type)
	keep(&expense.Category, req.Category)
	keep(&expense.Description, req.Description)
	keep(&expense.Employee, req.Employee)
	keep(&expense.PaymentMethod, req.PaymentMethod)
	keep(&expense.Notes, req.Notes)
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	if err := ec.store.Replace(ctx, expense); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Expense not found")
		}
		return respondError(c, ec.log, err, "Failed to update expense")
	}
	return respond(c, http.StatusOK, "Expense updated successfully", expense)
}

func (ec *ExpenseController) DeleteExpense(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := ec.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Expense not found")
		}
		return respondError(c, ec.log, err, "Server error")
	}
	return respond(c, http.StatusOK, "Expense deleted successfully", nil)
}

// GetSummary totals expenses per type and overall
func (ec *ExpenseController) GetSummary(c echo.Context) error {
	filter, err := expenseFilter(c)
	if err != nil {
		return respondError(c, ec.log, err, "Server error")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	summary, err := ec.store.SummaryByType(ctx, filter)
	if err != nil {
		return respondError(c, ec.log, err, "Server error")
	}
	return respond(c, http.StatusOK, "Summary retrieved successfully", summary)
}

func (ec *ExpenseController) ExportExpenses(c echo.Context) error {
	filter, err := expenseFilter(c)
	if err != nil {
		return respondError(c, ec.log, err, "Server error")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	expenses, err := ec.store.List(ctx, filter)
	if err != nil {
		return respondError(c, ec.log, err, "Server error")
	}
	summary, err := ec.store.SummaryByType(ctx, filter)
	if err != nil {
		return respondError(c, ec.log, err, "Server error")
	}
	data, err := excel.ExpensesXLSX(expenses, &summary)
	if err != nil {
		return respondError(c, ec.log, err, "Failed to export expenses")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="expenses.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, data)
}
