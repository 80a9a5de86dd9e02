package services

import (
	"context"
	"sort"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FlatProfitMargin is the assumed margin used by the sales report
const FlatProfitMargin = 0.3

const (
	reportDateLayout = "2006-01-02"
	topProductLimit  = 10
	unknownItemName  = "Unknown Item"
)

// ReportService computes the dashboard and sales report figures
type ReportService struct {
	sales     SaleStore
	customers CustomerStore
	products  ProductStore
	now       Clock
}

func NewReportService(sales SaleStore, customers CustomerStore, products ProductStore) *ReportService {
	return &ReportService{sales: sales, customers: customers, products: products, now: time.Now}
}

// ReportWindow is an inclusive date range. A zero value means all time.
type ReportWindow struct {
	Start *time.Time
	End   *time.Time
}

// Bounded reports whether both ends are set
func (w ReportWindow) Bounded() bool {
	return w.Start != nil && w.End != nil
}

// ParseReportWindow reads start and end query values. The window only
// applies when both are given; end is extended to the end of its day.
func ParseReportWindow(start, end string) (ReportWindow, error) {
	if start == "" || end == "" {
		return ReportWindow{}, nil
	}
	from, err := parseReportDate(start)
	if err != nil {
		return ReportWindow{}, BadRequest("Invalid start date: %s", start)
	}
	to, err := parseReportDate(end)
	if err != nil {
		return ReportWindow{}, BadRequest("Invalid end date: %s", end)
	}
	from = StartOfDay(from)
	to = EndOfDay(to)
	if to.Before(from) {
		return ReportWindow{}, BadRequest("End date must not be before start date")
	}
	return ReportWindow{Start: &from, End: &to}, nil
}

func parseReportDate(v string) (time.Time, error) {
	if t, err := time.ParseInLocation(reportDateLayout, v, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(time.Local), nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// MonthKey formats t as YYYY-MM in local time
func MonthKey(t time.Time) string {
	return t.In(time.Local).Format("2006-01")
}

// Dashboard summarises today, this month and stock alerts. Profit is item
// level: (salePrice - costPrice) * qty over this month's sales, using current
// product prices and skipping lines whose product no longer exists.
func (s *ReportService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now()
	dayStart := StartOfDay(now)
	monthStart := StartOfMonth(now)

	daily, todayCount, err := s.sales.SummarySince(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	monthly, _, err := s.sales.SummarySince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}

	monthSales, err := s.sales.FindCreatedBetween(ctx, &monthStart, nil)
	if err != nil {
		return nil, err
	}
	profit, err := s.itemProfit(ctx, monthSales)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		DailySales:    daily,
		MonthlySales:  monthly,
		TodaysOrders:  todayCount,
		LowStockCount: lowStock,
		TotalProfit:   profit,
	}, nil
}

func (s *ReportService) itemProfit(ctx context.Context, sales []models.Sale) (float64, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, sale := range sales {
		for _, item := range sale.Items {
			if item.Product.IsZero() || seen[item.Product] {
				continue
			}
			seen[item.Product] = true
			ids = append(ids, item.Product)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	return ItemProfit(sales, products), nil
}

// ItemProfit sums (line price - costPrice) * qty for every line whose product
// is present in products. The line price is what the item actually sold for.
func ItemProfit(sales []models.Sale, products map[primitive.ObjectID]models.Product) float64 {
	var profit float64
	for _, sale := range sales {
		for _, item := range sale.Items {
			p, ok := products[item.Product]
			if !ok {
				continue
			}
			profit += (item.Price - p.CostPrice) * float64(item.Qty)
		}
	}
	return profit
}

// SalesReport aggregates sales in the window. Recovered amounts count
// payments dated inside the window and are zero without one. Outstanding
// balances are current and ignore the window.
func (s *ReportService) SalesReport(ctx context.Context, window ReportWindow) (*models.SalesReport, error) {
	var sales []models.Sale
	var err error
	if window.Bounded() {
		sales, err = s.sales.FindCreatedBetween(ctx, window.Start, window.End)
	} else {
		sales, err = s.sales.FindCreatedBetween(ctx, nil, nil)
	}
	if err != nil {
		return nil, err
	}

	report := SummarizeSales(sales)
	if window.Bounded() {
		report.Start = window.Start.Format(reportDateLayout)
		report.End = window.End.Format(reportDateLayout)
		report.RecoveredAmount, err = s.sales.SumPaymentsBetween(ctx, *window.Start, *window.End)
		if err != nil {
			return nil, err
		}
	}

	if report.PermanentRemaining, err = s.customers.SumRemainingDue(ctx); err != nil {
		return nil, err
	}
	if report.TemporaryRemaining, err = s.sales.SumTemporaryOutstanding(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// SummarizeSales computes totals, counts, flat profit and top products
func SummarizeSales(sales []models.Sale) *models.SalesReport {
	report := &models.SalesReport{TopProducts: []models.TopProduct{}}
	for _, sale := range sales {
		report.TotalSales += sale.Total
		report.SaleCount++
		if sale.SaleType == models.SaleCash {
			report.CashSales += sale.Total
			report.CashCount++
		} else {
			report.CreditSales += sale.Total
			report.CreditCount++
		}
	}
	report.Profit = report.TotalSales * FlatProfitMargin
	report.TopProducts = TopProducts(sales, topProductLimit)
	return report
}

// TopProducts groups lines by product name and ranks them by revenue. Ties
// keep the order in which the names first appeared.
func TopProducts(sales []models.Sale, limit int) []models.TopProduct {
	index := map[string]int{}
	products := []models.TopProduct{}
	for _, sale := range sales {
		for _, item := range sale.Items {
			name := item.Name
			if name == "" {
				name = unknownItemName
			}
			i, ok := index[name]
			if !ok {
				i = len(products)
				index[name] = i
				products = append(products, models.TopProduct{Name: name})
			}
			products[i].Qty += item.Qty
			products[i].Revenue += float64(item.Qty) * item.Price
		}
	}
	sort.SliceStable(products, func(a, b int) bool {
		return products[a].Revenue > products[b].Revenue
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}
