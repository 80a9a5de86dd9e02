package controllers

import (
	"context"
	"net/http"

	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type DashboardController struct {
	reports *services.ReportService
	log     *logrus.Entry
}

func NewDashboardController(reports *services.ReportService, log *logrus.Entry) *DashboardController {
	return &DashboardController{reports: reports, log: log}
}

// GetStats returns today's and this month's figures
func (dc *DashboardController) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	stats, err := dc.reports.Dashboard(ctx)
	if err != nil {
		return respondError(c, dc.log, err, "Failed to load dashboard")
	}
	return respond(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
