package controllers

import (
	"context"
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type EmployeeController struct {
	employees *services.EmployeeService
	log       *logrus.Entry
}

func NewEmployeeController(employees *services.EmployeeService, log *logrus.Entry) *EmployeeController {
	return &EmployeeController{employees: employees, log: log}
}

func (ec *EmployeeController) GetEmployees(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	employees, err := ec.employees.List(ctx)
	if err != nil {
		return respondError(c, ec.log, err, "Failed to fetch employees")
	}
	return respond(c, http.StatusOK, "Employees retrieved successfully", employees)
}

func (ec *EmployeeController) CreateEmployee(c echo.Context) error {
	var req models.CreateEmployeeRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	employee, err := ec.employees.Create(ctx, req)
	if err != nil {
		return respondError(c, ec.log, err, "Failed to create employee")
	}
	return respond(c, http.StatusCreated, "Employee created successfully", employee)
}

func (ec *EmployeeController) UpdateEmployee(c echo.Context) error {
	var req models.UpdateEmployeeRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	employee, err := ec.employees.Update(ctx, c.Param("id"), req)
	if err != nil {
		return respondError(c, ec.log, err, "Failed to update employee")
	}
	return respond(c, http.StatusOK, "Employee updated successfully", employee)
}

func (ec *EmployeeController) DeleteEmployee(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := ec.employees.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, ec.log, err, "Failed to delete employee")
	}
	return respond(c, http.StatusOK, "Employee deleted successfully", nil)
}

// PaySalary records this month's salary
func (ec *EmployeeController) PaySalary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	employee, err := ec.employees.PaySalary(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, ec.log, err, "Failed to pay salary")
	}
	return respond(c, http.StatusOK, "Salary paid successfully", employee)
}
