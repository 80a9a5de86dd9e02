package services

import (
	"context"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/logger"
	"github.com/HSouheill/shop_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ledgerFixture struct {
	svc       *LedgerService
	sales     *fakeSales
	customers *fakeCustomers
	products  *fakeProducts
	notifier  *recordingNotifier
	product   models.Product
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	product := models.Product{ID: primitive.NewObjectID(), Name: "Rice 5kg", Stock: 12, MinStockAlert: 10, CostPrice: 700, SalePrice: 1000}
	f := &ledgerFixture{
		sales:     &fakeSales{},
		customers: newFakeCustomers(),
		products:  newFakeProducts(product),
		notifier:  &recordingNotifier{},
		product:   product,
	}
	f.svc = NewLedgerService(f.sales, f.customers, f.products, f.notifier, logger.Discard())
	f.svc.now = fixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local))
	return f
}

func (f *ledgerFixture) addCustomer(t *testing.T, name, phone string) *models.CustomerWithCredit {
	t.Helper()
	c, err := f.svc.CreateCustomer(context.Background(), models.CustomerRequest{Name: name, Phone: phone}, "owner")
	require.NoError(t, err)
	return c
}

func (f *ledgerFixture) creditSale(t *testing.T, customerID primitive.ObjectID, total float64, qty int) *models.Sale {
	t.Helper()
	sale, err := f.svc.CreateSale(context.Background(), models.CreateSaleRequest{
		Items:    []models.SaleItemRequest{{Product: f.product.ID.Hex(), Name: f.product.Name, Qty: qty, Price: total / float64(qty)}},
		Customer: customerID.Hex(),
		SaleType: models.SalePermanent,
		Total:    total,
	})
	require.NoError(t, err)
	return sale
}

func TestCreditSaleAndPaymentsFloorAtZero(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cust := f.addCustomer(t, "Ali", "03001234567")
	sale := f.creditSale(t, cust.ID, 1000, 1)

	c, err := f.customers.FindByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, c.TotalPurchases)
	assert.Equal(t, 1000.0, c.RemainingDue)

	res, err := f.svc.RecordPayment(ctx, cust.ID.Hex(), models.PaymentRequest{SaleID: sale.ID.Hex(), Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, 600.0, res.Customer.RemainingDue)
	assert.Equal(t, 400.0, res.Customer.TotalPaid)
	assert.Equal(t, 400.0, res.Sale.PaidAmount)
	assert.Equal(t, "cash", res.Sale.Payments[0].Method)

	res, err = f.svc.RecordPayment(ctx, cust.ID.Hex(), models.PaymentRequest{SaleID: sale.ID.Hex(), Amount: 700, Method: "bank"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Customer.RemainingDue)
	assert.Equal(t, 1100.0, res.Customer.TotalPaid)
	assert.Equal(t, 1100.0, res.Sale.PaidAmount)
	assert.Len(t, res.Sale.Payments, 2)
	assert.Equal(t, 1000.0, res.Customer.TotalCredit)
}

func TestPaymentForAnotherCustomersSaleChangesNothing(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	a := f.addCustomer(t, "Ali", "0300")
	b := f.addCustomer(t, "Bilal", "0311")
	sale := f.creditSale(t, a.ID, 500, 1)

	_, err := f.svc.RecordPayment(ctx, b.ID.Hex(), models.PaymentRequest{SaleID: sale.ID.Hex(), Amount: 100})
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, "Sale does not belong to this customer", err.Error())

	stored, _ := f.sales.FindByID(ctx, sale.ID)
	assert.Empty(t, stored.Payments)
	assert.Zero(t, stored.PaidAmount)
	other, _ := f.customers.FindByID(ctx, b.ID)
	assert.Zero(t, other.TotalPaid)
}

func TestRecordPaymentValidationOrder(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cust := f.addCustomer(t, "Ali", "0300")
	sale := f.creditSale(t, cust.ID, 500, 1)

	tests := []struct {
		name       string
		customerID string
		req        models.PaymentRequest
		kind       Kind
		msg        string
	}{
		{"missing sale id", cust.ID.Hex(), models.PaymentRequest{Amount: 10}, KindBadRequest, "saleId is required for payment"},
		{"unknown customer", primitive.NewObjectID().Hex(), models.PaymentRequest{SaleID: sale.ID.Hex(), Amount: 10}, KindNotFound, "Customer not found"},
		{"malformed customer", "nope", models.PaymentRequest{SaleID: sale.ID.Hex(), Amount: 10}, KindNotFound, "Customer not found"},
		{"unknown sale", cust.ID.Hex(), models.PaymentRequest{SaleID: primitive.NewObjectID().Hex(), Amount: 10}, KindNotFound, "Sale not found"},
		{"zero amount", cust.ID.Hex(), models.PaymentRequest{SaleID: sale.ID.Hex()}, KindBadRequest, "Invalid amount"},
		{"negative amount", cust.ID.Hex(), models.PaymentRequest{SaleID: sale.ID.Hex(), Amount: -5}, KindBadRequest, "Invalid amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordPayment(ctx, tt.customerID, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	c, _ := f.customers.FindByID(ctx, cust.ID)
	assert.Equal(t, 500.0, c.RemainingDue)
}

func TestCreateSaleDeductsStockAndWarnsOnce(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	req := models.CreateSaleRequest{
		Items:    []models.SaleItemRequest{{Product: f.product.ID.Hex(), Name: f.product.Name, Qty: 2, Price: 1000}},
		SaleType: models.SaleCash,
		Payments: []models.PaymentInput{{Amount: 2000}},
		Total:    2000,
	}

	sale, err := f.svc.CreateSale(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, sale.PaidAmount)
	assert.Nil(t, sale.Customer)
	assert.Equal(t, 10, f.products.byID[f.product.ID].Stock)
	assert.Equal(t, []string{models.NotificationLowStock}, f.notifier.types())

	// already below threshold, no second alert
	_, err = f.svc.CreateSale(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 8, f.products.byID[f.product.ID].Stock)
	assert.Len(t, f.notifier.types(), 1)
}

func TestCreateSaleStockMayGoNegative(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.svc.CreateSale(context.Background(), models.CreateSaleRequest{
		Items:    []models.SaleItemRequest{{Product: f.product.ID.Hex(), Name: f.product.Name, Qty: 20, Price: 10}},
		SaleType: models.SaleTemporary,
		Total:    200,
	})
	require.NoError(t, err)
	assert.Equal(t, -8, f.products.byID[f.product.ID].Stock)
}

func TestCreateSaleRejectsBadInput(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateSale(ctx, models.CreateSaleRequest{SaleType: models.SaleCash})
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.svc.CreateSale(ctx, models.CreateSaleRequest{
		Items:    []models.SaleItemRequest{{Product: "bad", Qty: 1}},
		SaleType: models.SaleCash,
	})
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.svc.CreateSale(ctx, models.CreateSaleRequest{
		Items:    []models.SaleItemRequest{{Product: f.product.ID.Hex(), Qty: 1}},
		Customer: primitive.NewObjectID().Hex(),
		SaleType: models.SalePermanent,
	})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Empty(t, f.sales.sales)
}

func TestTemporarySaleLeavesCustomerLedgerAlone(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cust := f.addCustomer(t, "Ali", "0300")
	_, err := f.svc.CreateSale(ctx, models.CreateSaleRequest{
		Items:    []models.SaleItemRequest{{Product: f.product.ID.Hex(), Qty: 1, Price: 300}},
		Customer: cust.ID.Hex(),
		SaleType: models.SaleTemporary,
		Total:    300,
	})
	require.NoError(t, err)

	c, _ := f.customers.FindByID(ctx, cust.ID)
	assert.Zero(t, c.RemainingDue)
	assert.Zero(t, c.TotalPurchases)
}

func TestCreateCustomerDefaultsAndNotifies(t *testing.T) {
	f := newLedgerFixture(t)
	c := f.addCustomer(t, "Sara", "0333")
	assert.Equal(t, float64(models.DefaultCreditLimit), c.CreditLimit)
	assert.Equal(t, models.DefaultGender, c.Gender)
	assert.Equal(t, []string{models.NotificationNewCredit}, f.notifier.types())

	_, err := f.svc.CreateCustomer(context.Background(), models.CustomerRequest{Name: "Dup", Phone: "0333"}, "owner")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestCustomersWithCreditSumsPermanentSales(t *testing.T) {
	f := newLedgerFixture(t)
	a := f.addCustomer(t, "Bilal", "0311")
	b := f.addCustomer(t, "Ali", "0300")
	f.creditSale(t, a.ID, 250, 1)
	f.creditSale(t, a.ID, 750, 1)

	list, err := f.svc.CustomersWithCredit(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Zero(t, list[0].TotalCredit)
	assert.Equal(t, 1000.0, list[1].TotalCredit)
}

func TestCustomerSalesEndDateIsInclusive(t *testing.T) {
	f := newLedgerFixture(t)
	cust := f.addCustomer(t, "Ali", "0300")
	f.creditSale(t, cust.ID, 100, 1)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	sales, err := f.svc.CustomerSales(context.Background(), cust.ID.Hex(), &day, &day)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	before := day.AddDate(0, 0, -1)
	sales, err = f.svc.CustomerSales(context.Background(), cust.ID.Hex(), nil, &before)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestUpdateSaleKeepsLedgerFields(t *testing.T) {
	f := newLedgerFixture(t)
	cust := f.addCustomer(t, "Ali", "0300")
	sale := f.creditSale(t, cust.ID, 1000, 1)

	tax := 50.0
	updated, err := f.svc.UpdateSale(context.Background(), sale.ID.Hex(), models.UpdateSaleRequest{
		Tax:          &tax,
		CustomerInfo: &models.CustomerInfo{Name: "Ali Khan"},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.Tax)
	assert.Equal(t, 1000.0, updated.Total)
	assert.Equal(t, "Ali Khan", updated.CustomerInfo.Name)

	_, err = f.svc.UpdateSale(context.Background(), primitive.NewObjectID().Hex(), models.UpdateSaleRequest{})
	assert.Equal(t, KindNotFound, KindOf(err))
}
