package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HSouheill/shop_backend/excel"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SaleController struct {
	ledger  *services.LedgerService
	reports *services.ReportService
	log     *logrus.Entry
}

func NewSaleController(ledger *services.LedgerService, reports *services.ReportService, log *logrus.Entry) *SaleController {
	return &SaleController{ledger: ledger, reports: reports, log: log}
}

func (sc *SaleController) CreateSale(c echo.Context) error {
	var req models.CreateSaleRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	sale, err := sc.ledger.CreateSale(ctx, req)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to create sale")
	}
	return respond(c, http.StatusCreated, "Sale created successfully", sale)
}

func (sc *SaleController) GetSales(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	sales, err := sc.ledger.ListSales(ctx)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to fetch sales")
	}
	return respond(c, http.StatusOK, "Sales retrieved successfully", sales)
}

func (sc *SaleController) GetSale(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	sale, err := sc.ledger.Sale(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, sc.log, err, "Failed to fetch sale")
	}
	return respond(c, http.StatusOK, "Sale retrieved successfully", sale)
}

// UpdateSale patches descriptive fields only
func (sc *SaleController) UpdateSale(c echo.Context) error {
	var req models.UpdateSaleRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	sale, err := sc.ledger.UpdateSale(ctx, c.Param("id"), req)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to update sale")
	}
	return respond(c, http.StatusOK, "Sale updated successfully", sale)
}

func (sc *SaleController) GetReport(c echo.Context) error {
	report, err := sc.buildReport(c)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to build report")
	}
	return respond(c, http.StatusOK, "Report generated successfully", report)
}

// ExportReport returns the same report as an xlsx download
func (sc *SaleController) ExportReport(c echo.Context) error {
	report, err := sc.buildReport(c)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to build report")
	}
	data, err := excel.SalesReportXLSX(report)
	if err != nil {
		return respondError(c, sc.log, err, "Failed to export report")
	}
	name := "sales-report.xlsx"
	if report.Start != "" {
		name = fmt.Sprintf("sales-report-%s-to-%s.xlsx", report.Start, report.End)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxMIME, data)
}

func (sc *SaleController) buildReport(c echo.Context) (*models.SalesReport, error) {
	window, err := services.ParseReportWindow(c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	return sc.reports.SalesReport(ctx, window)
}
