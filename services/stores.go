package services

import (
	"context"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The interfaces below are the slices of the repositories each service needs.

type OwnerStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, owner *models.Owner) error
	FindByEmail(ctx context.Context, email string) (*models.Owner, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Owner, error)
	SetResetCode(ctx context.Context, id primitive.ObjectID, code string, expires time.Time) error
	CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

type EmployeeStore interface {
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindByUsername(ctx context.Context, username string) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Replace(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	RecordSalary(ctx context.Context, id primitive.ObjectID, record models.SalaryRecord) (bool, error)
}

type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	ListByName(ctx context.Context) ([]models.Customer, error)
	IncrementBalances(ctx context.Context, id primitive.ObjectID, amount float64) error
	ApplyPayment(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Customer, error)
	SumRemainingDue(ctx context.Context) (float64, error)
}

type SaleStore interface {
	Create(ctx context.Context, sale *models.Sale) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Sale, error)
	ListWithCustomers(ctx context.Context) ([]models.SaleView, error)
	FindCreatedBetween(ctx context.Context, from, to *time.Time) ([]models.Sale, error)
	FindByCustomer(ctx context.Context, customerID primitive.ObjectID, saleType string, from, to *time.Time) ([]models.Sale, error)
	UpdateDetails(ctx context.Context, sale *models.Sale) error
	AppendPayment(ctx context.Context, id primitive.ObjectID, payment models.Payment) (*models.Sale, error)
	SummarySince(ctx context.Context, since time.Time) (float64, int64, error)
	SumPaymentsBetween(ctx context.Context, from, to time.Time) (float64, error)
	SumTemporaryOutstanding(ctx context.Context) (float64, error)
	PermanentTotalsByCustomer(ctx context.Context, customerIDs []primitive.ObjectID) (map[primitive.ObjectID]float64, error)
}

type ProductStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Product, error)
	CountLowStock(ctx context.Context) (int64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	SetEmailSent(ctx context.Context, id primitive.ObjectID, sent bool) error
	List(ctx context.Context) ([]models.Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkAllRead(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	MarkOneRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (*models.ShopSettings, error)
}

// AttemptLimiter throttles repeated attempts per key
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Notifier records a notification on behalf of another service. It never
// fails the caller.
type Notifier interface {
	Notify(ctx context.Context, notifType, message string, data map[string]interface{})
}

// Clock lets tests pin "now"
type Clock func() time.Time
