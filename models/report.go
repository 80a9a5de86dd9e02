package models

// DashboardStats is the point-in-time summary shown on the dashboard
type DashboardStats struct {
	DailySales    float64 `json:"dailySales"`
	MonthlySales  float64 `json:"monthlySales"`
	TodaysOrders  int64   `json:"todaysOrders"`
	LowStockCount int64   `json:"lowStockCount"`
	TotalProfit   float64 `json:"totalProfit"`
}

type TopProduct struct {
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Revenue float64 `json:"revenue"`
}

// SalesReport covers an optional date window. PermanentRemaining and
// TemporaryRemaining are current balances and ignore the window.
type SalesReport struct {
	Start              string       `json:"start,omitempty"`
	End                string       `json:"end,omitempty"`
	TotalSales         float64      `json:"totalSales"`
	CashSales          float64      `json:"cashSales"`
	CreditSales        float64      `json:"creditSales"`
	SaleCount          int          `json:"saleCount"`
	CashCount          int          `json:"cashCount"`
	CreditCount        int          `json:"creditCount"`
	RecoveredAmount    float64      `json:"recoveredAmount"`
	Profit             float64      `json:"profit"`
	TopProducts        []TopProduct `json:"topProducts"`
	PermanentRemaining float64      `json:"permanentRemaining"`
	TemporaryRemaining float64      `json:"temporaryRemaining"`
}

type ExpenseTypeTotal struct {
	Type  string  `json:"_id" bson:"_id"`
	Total float64 `json:"total" bson:"total"`
	Count int     `json:"count" bson:"count"`
}

type ExpenseSummary struct {
	ByType        []ExpenseTypeTotal `json:"byType"`
	TotalExpenses float64            `json:"totalExpenses"`
}
