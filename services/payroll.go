package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmployeeService manages staff accounts and monthly salary payments
type EmployeeService struct {
	store    EmployeeStore
	notifier Notifier
	now      Clock
}

func NewEmployeeService(store EmployeeStore, notifier Notifier) *EmployeeService {
	return &EmployeeService{store: store, notifier: notifier, now: time.Now}
}

func (s *EmployeeService) Create(ctx context.Context, req models.CreateEmployeeRequest) (*models.Employee, error) {
	role := defaultString(req.Role, models.RoleCashier)
	if !models.IsValidRole(role) {
		return nil, BadRequest("Invalid role: %s", role)
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	employee := &models.Employee{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         role,
		JoinDate:     s.now(),
		Address:      req.Address,
		CNIC:         req.CNIC,
		Username:     strings.TrimSpace(req.Username),
		Password:     hash,
		IsActive:     true,
		SalaryStatus: models.SalaryUnpaid,
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.JoinDate != nil {
		employee.JoinDate = *req.JoinDate
	}

	if err := s.store.Create(ctx, employee); err != nil {
		return nil, duplicateOr(err, "Username already exists")
	}

	s.notifier.Notify(ctx, models.NotificationEmployeeAdded,
		fmt.Sprintf("New employee %s added as %s", employee.Name, employee.Role),
		map[string]interface{}{
			"employeeName": employee.Name,
			"role":         employee.Role,
			"phone":        employee.Phone,
			"salary":       employee.Salary,
		})
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	return s.store.List(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, BadRequest("Invalid ID")
	}
	employee, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, notFoundOr(err, "Employee not found")
	}
	return employee, nil
}

// Update applies the supplied fields. The password is rehashed only when a
// non-empty one is given.
func (s *EmployeeService) Update(ctx context.Context, id string, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Role != nil {
		if !models.IsValidRole(*req.Role) {
			return nil, BadRequest("Invalid role: %s", *req.Role)
		}
		employee.Role = *req.Role
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.JoinDate != nil {
		employee.JoinDate = *req.JoinDate
	}
	if req.Address != nil {
		employee.Address = *req.Address
	}
	if req.CNIC != nil {
		employee.CNIC = *req.CNIC
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		employee.Username = strings.TrimSpace(*req.Username)
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		employee.Password = hash
	}

	if err := s.store.Replace(ctx, employee); err != nil {
		if err = duplicateOr(err, "Username already exists"); KindOf(err) != 0 {
			return nil, err
		}
		return nil, notFoundOr(err, "Employee not found")
	}
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return BadRequest("Invalid ID")
	}
	return notFoundOr(s.store.Delete(ctx, oid), "Employee not found")
}

// PaySalary records this month's salary at the employee's current rate. A
// month can be paid once.
func (s *EmployeeService) PaySalary(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	record := models.SalaryRecord{
		Amount:   employee.Salary,
		PaidDate: now,
		Month:    MonthKey(now),
		Status:   models.SalaryPaid,
	}
	if employee.LastPaidMonth == record.Month {
		return nil, BadRequest("Salary already paid for this month")
	}
	ok, err := s.store.RecordSalary(ctx, employee.ID, record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, BadRequest("Salary already paid for this month")
	}

	employee.SalaryHistory = append(employee.SalaryHistory, record)
	employee.LastPaidMonth = record.Month
	employee.SalaryStatus = models.SalaryPaid

	s.notifier.Notify(ctx, models.NotificationSalaryPaid,
		fmt.Sprintf("Salary of %.2f paid to %s for %s", record.Amount, employee.Name, record.Month),
		map[string]interface{}{
			"employeeName": employee.Name,
			"amount":       record.Amount,
			"month":        record.Month,
		})
	return employee, nil
}
