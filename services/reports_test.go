package services

import (
	"context"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseReportWindow(t *testing.T) {
	w, err := ParseReportWindow("", "2024-03-01")
	require.NoError(t, err)
	assert.False(t, w.Bounded())

	w, err = ParseReportWindow("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.True(t, w.Bounded())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), *w.Start)
	assert.Equal(t, 23, w.End.Hour())
	assert.Equal(t, 31, w.End.Day())

	_, err = ParseReportWindow("yesterday", "2024-03-31")
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = ParseReportWindow("2024-03-31", "2024-03-01")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestTopProductsRanksByRevenueAndKeepsTies(t *testing.T) {
	sales := []models.Sale{
		{Items: []models.SaleItem{{Name: "Tea", Qty: 2, Price: 50}, {Name: "", Qty: 1, Price: 100}}},
		{Items: []models.SaleItem{{Name: "Sugar", Qty: 1, Price: 300}, {Name: "Tea", Qty: 1, Price: 50}}},
	}
	top := TopProducts(sales, 10)
	require.Len(t, top, 3)
	assert.Equal(t, models.TopProduct{Name: "Sugar", Qty: 1, Revenue: 300}, top[0])
	assert.Equal(t, models.TopProduct{Name: "Tea", Qty: 3, Revenue: 150}, top[1])
	assert.Equal(t, models.TopProduct{Name: "Unknown Item", Qty: 1, Revenue: 100}, top[2])

	assert.Len(t, TopProducts(sales, 2), 2)
}

func TestSummarizeSalesUsesFlatMargin(t *testing.T) {
	report := SummarizeSales([]models.Sale{
		{SaleType: models.SaleCash, Total: 1000},
		{SaleType: models.SalePermanent, Total: 500},
		{SaleType: models.SaleTemporary, Total: 500},
	})
	assert.Equal(t, 2000.0, report.TotalSales)
	assert.Equal(t, 1000.0, report.CashSales)
	assert.Equal(t, 1000.0, report.CreditSales)
	assert.Equal(t, 3, report.SaleCount)
	assert.Equal(t, 1, report.CashCount)
	assert.Equal(t, 2, report.CreditCount)
	assert.InDelta(t, 600.0, report.Profit, 1e-9)
}

func TestSalesReportWindowAndBalances(t *testing.T) {
	ctx := context.Background()
	sales := &fakeSales{}
	customers := newFakeCustomers()
	cust := &models.Customer{Name: "Ali", RemainingDue: 750}
	require.NoError(t, customers.Create(ctx, cust))

	march := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	april := time.Date(2024, 4, 5, 10, 0, 0, 0, time.Local)
	require.NoError(t, sales.Create(ctx, &models.Sale{SaleType: models.SaleCash, Total: 400, CreatedAt: march,
		Payments: []models.Payment{{Amount: 400, Date: march}}, PaidAmount: 400}))
	require.NoError(t, sales.Create(ctx, &models.Sale{SaleType: models.SaleTemporary, Total: 300, CreatedAt: april,
		Payments: []models.Payment{{Amount: 100, Date: april}}, PaidAmount: 100}))

	svc := NewReportService(sales, customers, newFakeProducts())

	all, err := svc.SalesReport(ctx, ReportWindow{})
	require.NoError(t, err)
	assert.Equal(t, 700.0, all.TotalSales)
	assert.Zero(t, all.RecoveredAmount)
	assert.Empty(t, all.Start)
	assert.Equal(t, 750.0, all.PermanentRemaining)
	assert.Equal(t, 200.0, all.TemporaryRemaining)

	w, err := ParseReportWindow("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	inMarch, err := svc.SalesReport(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, 400.0, inMarch.TotalSales)
	// cash sale payments are not recovered credit
	assert.Zero(t, inMarch.RecoveredAmount)
	assert.Equal(t, "2024-03-01", inMarch.Start)
	assert.Equal(t, "2024-03-31", inMarch.End)
	assert.Equal(t, 200.0, inMarch.TemporaryRemaining)
}

func TestRecoveredCreditFollowsPaymentDate(t *testing.T) {
	ctx := context.Background()
	sales := &fakeSales{}
	custID := primitive.NewObjectID()

	march := time.Date(2024, 3, 20, 10, 0, 0, 0, time.Local)
	aprilPay := time.Date(2024, 4, 10, 18, 30, 0, 0, time.Local)
	mayPay := time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local)
	require.NoError(t, sales.Create(ctx, &models.Sale{SaleType: models.SalePermanent, Customer: &custID, Total: 1000, CreatedAt: march,
		Payments: []models.Payment{{Amount: 250, Date: aprilPay}, {Amount: 100, Date: mayPay}}, PaidAmount: 350}))
	require.NoError(t, sales.Create(ctx, &models.Sale{SaleType: models.SaleCash, Total: 90, CreatedAt: aprilPay,
		Payments: []models.Payment{{Amount: 90, Date: aprilPay}}, PaidAmount: 90}))

	svc := NewReportService(sales, newFakeCustomers(), newFakeProducts())

	w, err := ParseReportWindow("2024-04-01", "2024-04-30")
	require.NoError(t, err)
	report, err := svc.SalesReport(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, 90.0, report.TotalSales)
	assert.Equal(t, 250.0, report.RecoveredAmount)
}

func TestDashboardItemProfitSkipsMissingProducts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 20, 15, 0, 0, 0, time.Local)
	rice := models.Product{ID: primitive.NewObjectID(), Name: "Rice", Stock: 3, MinStockAlert: 5, CostPrice: 80, SalePrice: 100}
	oil := models.Product{ID: primitive.NewObjectID(), Name: "Oil", Stock: 50, MinStockAlert: 5, CostPrice: 200, SalePrice: 260}
	products := newFakeProducts(rice, oil)
	sales := &fakeSales{}

	require.NoError(t, sales.Create(ctx, &models.Sale{Total: 500, CreatedAt: now.Add(-time.Hour), Items: []models.SaleItem{
		{Product: rice.ID, Qty: 5, Price: 100},
		{Product: primitive.NewObjectID(), Qty: 9, Price: 10},
		{Product: rice.ID, Qty: 2, Price: 150},
	}}))
	require.NoError(t, sales.Create(ctx, &models.Sale{Total: 260, CreatedAt: now.AddDate(0, 0, -10), Items: []models.SaleItem{
		{Product: oil.ID, Qty: 1, Price: 260},
	}}))
	require.NoError(t, sales.Create(ctx, &models.Sale{Total: 999, CreatedAt: now.AddDate(0, -1, 0), Items: []models.SaleItem{
		{Product: oil.ID, Qty: 10, Price: 260},
	}}))

	svc := NewReportService(sales, newFakeCustomers(), products)
	svc.now = fixedClock(now)

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stats.DailySales)
	assert.Equal(t, int64(1), stats.TodaysOrders)
	assert.Equal(t, 760.0, stats.MonthlySales)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.InDelta(t, 5*20.0+2*70.0+60.0, stats.TotalProfit, 1e-9)
}

func TestItemProfitUsesLinePrice(t *testing.T) {
	rice := models.Product{ID: primitive.NewObjectID(), CostPrice: 80, SalePrice: 100}
	products := map[primitive.ObjectID]models.Product{rice.ID: rice}

	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"sold above list price", 150, 140},
		{"sold at list price", 100, 40},
		{"discounted below cost", 70, -20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sales := []models.Sale{{Items: []models.SaleItem{{Product: rice.ID, Qty: 2, Price: tt.price}}}}
			assert.InDelta(t, tt.want, ItemProfit(sales, products), 1e-9)
		})
	}
}
