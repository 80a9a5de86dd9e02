package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerService keeps customer balances, sale payments and product stock in
// step as sales are created and paid down. Each step is its own write; there
// is no cross-document transaction.
type LedgerService struct {
	sales     SaleStore
	customers CustomerStore
	products  ProductStore
	notifier  Notifier
	log       *logrus.Entry
	now       Clock
}

func NewLedgerService(sales SaleStore, customers CustomerStore, products ProductStore, notifier Notifier, log *logrus.Entry) *LedgerService {
	return &LedgerService{sales: sales, customers: customers, products: products, notifier: notifier, log: log, now: time.Now}
}

// PaymentResult is the state of both ledger sides after a payment
type PaymentResult struct {
	Customer models.CustomerWithCredit `json:"customer"`
	Sale     *models.Sale              `json:"sale"`
}

// CreateSale stores the sale, takes each line's quantity off stock and, for
// permanent credit sales, charges the total to the customer.
func (s *LedgerService) CreateSale(ctx context.Context, req models.CreateSaleRequest) (*models.Sale, error) {
	if !models.IsValidSaleType(req.SaleType) {
		return nil, BadRequest("Invalid sale type: %s", req.SaleType)
	}
	if len(req.Items) == 0 {
		return nil, BadRequest("Sale must contain at least one item")
	}

	now := s.now()
	sale := &models.Sale{
		SaleType:        req.SaleType,
		CustomerInfo:    req.CustomerInfo,
		Subtotal:        req.Subtotal,
		DiscountPercent: req.DiscountPercent,
		ServiceCharge:   req.ServiceCharge,
		Tax:             req.Tax,
		Total:           req.Total,
		Payments:        []models.Payment{},
		CreatedAt:       now,
	}

	for i, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, BadRequest("Item %d has an invalid product id", i+1)
		}
		if item.Qty <= 0 {
			return nil, BadRequest("Item %d must have a positive quantity", i+1)
		}
		sale.Items = append(sale.Items, models.SaleItem{
			Product: productID,
			Name:    item.Name,
			Qty:     item.Qty,
			Price:   item.Price,
		})
	}

	for _, p := range req.Payments {
		if p.Amount < 0 {
			return nil, BadRequest("Invalid amount")
		}
		if p.Amount == 0 {
			continue
		}
		sale.Payments = append(sale.Payments, models.Payment{
			Method: defaultString(p.Method, "cash"),
			Amount: p.Amount,
			Detail: p.Detail,
			Date:   now,
		})
		sale.PaidAmount += p.Amount
	}

	if req.Customer != "" {
		customerID, err := primitive.ObjectIDFromHex(req.Customer)
		if err != nil {
			return nil, NotFound("Customer not found")
		}
		if _, err := s.customers.FindByID(ctx, customerID); err != nil {
			return nil, notFoundOr(err, "Customer not found")
		}
		sale.Customer = &customerID
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	for _, item := range sale.Items {
		s.deductStock(ctx, item)
	}

	if sale.SaleType == models.SalePermanent && sale.Customer != nil {
		if err := s.customers.IncrementBalances(ctx, *sale.Customer, sale.Total); err != nil {
			return nil, fmt.Errorf("sale %s saved but customer balance not updated: %w", sale.ID.Hex(), err)
		}
	}

	return sale, nil
}

// deductStock lowers stock with no floor. Crossing the product's own
// threshold raises a low-stock notification. A missing product is skipped.
func (s *LedgerService) deductStock(ctx context.Context, item models.SaleItem) {
	product, err := s.products.AdjustStock(ctx, item.Product, -item.Qty)
	if err != nil {
		s.log.WithError(err).Warnf("Stock not adjusted for product %s", item.Product.Hex())
		return
	}
	before := product.Stock + item.Qty
	if product.IsLowStock() && before > product.MinStockAlert {
		s.notifier.Notify(ctx, models.NotificationLowStock,
			fmt.Sprintf("%s is low on stock (%d left)", product.Name, product.Stock),
			map[string]interface{}{
				"productName":  product.Name,
				"currentStock": product.Stock,
				"minStock":     product.MinStockAlert,
			})
	}
}

// RecordPayment applies a payment to one of the customer's sales. The checks
// run before any write, so a rejected payment changes nothing.
func (s *LedgerService) RecordPayment(ctx context.Context, customerID string, req models.PaymentRequest) (*PaymentResult, error) {
	if req.SaleID == "" {
		return nil, BadRequest("saleId is required for payment")
	}

	custID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, NotFound("Customer not found")
	}
	if _, err := s.customers.FindByID(ctx, custID); err != nil {
		return nil, notFoundOr(err, "Customer not found")
	}

	saleID, err := primitive.ObjectIDFromHex(req.SaleID)
	if err != nil {
		return nil, NotFound("Sale not found")
	}
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, notFoundOr(err, "Sale not found")
	}
	if sale.Customer == nil || *sale.Customer != custID {
		return nil, Forbidden("Sale does not belong to this customer")
	}

	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, BadRequest("Invalid amount")
	}

	payment := models.Payment{
		Method: defaultString(req.Method, "cash"),
		Amount: req.Amount,
		Detail: req.Detail,
		Date:   s.now(),
	}
	updatedSale, err := s.sales.AppendPayment(ctx, saleID, payment)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.ApplyPayment(ctx, custID, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("payment stored on sale %s but customer balance not updated: %w", saleID.Hex(), err)
	}

	withCredit, err := s.withCredit(ctx, []models.Customer{*customer})
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Customer: withCredit[0], Sale: updatedSale}, nil
}

// CreateCustomer adds a permanent credit customer and announces it
func (s *LedgerService) CreateCustomer(ctx context.Context, req models.CustomerRequest, addedBy string) (*models.CustomerWithCredit, error) {
	customer := &models.Customer{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Gender:      defaultString(req.Gender, models.DefaultGender),
		Address:     req.Address,
		CNIC:        req.CNIC,
		CreditLimit: models.DefaultCreditLimit,
		DueDate:     req.DueDate,
	}
	if req.CreditLimit != nil {
		customer.CreditLimit = *req.CreditLimit
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, duplicateOr(err, "A customer with this phone already exists")
	}

	s.notifier.Notify(ctx, models.NotificationNewCredit,
		fmt.Sprintf("New credit customer %s added", customer.Name),
		map[string]interface{}{
			"customerName": customer.Name,
			"phone":        customer.Phone,
			"creditLimit":  customer.CreditLimit,
			"addedBy":      addedBy,
		})

	return &models.CustomerWithCredit{Customer: *customer}, nil
}

// CustomersWithCredit lists customers by name with totalCredit recomputed
// from their permanent sales.
func (s *LedgerService) CustomersWithCredit(ctx context.Context) ([]models.CustomerWithCredit, error) {
	customers, err := s.customers.ListByName(ctx)
	if err != nil {
		return nil, err
	}
	return s.withCredit(ctx, customers)
}

func (s *LedgerService) Customer(ctx context.Context, id string) (*models.CustomerWithCredit, error) {
	custID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NotFound("Customer not found")
	}
	customer, err := s.customers.FindByID(ctx, custID)
	if err != nil {
		return nil, notFoundOr(err, "Customer not found")
	}
	withCredit, err := s.withCredit(ctx, []models.Customer{*customer})
	if err != nil {
		return nil, err
	}
	return &withCredit[0], nil
}

// CustomerSales returns a customer's permanent sales, newest first. to is
// inclusive through the end of that day.
func (s *LedgerService) CustomerSales(ctx context.Context, customerID string, from, to *time.Time) ([]models.Sale, error) {
	custID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, NotFound("Customer not found")
	}
	if to != nil {
		end := EndOfDay(*to)
		to = &end
	}
	return s.sales.FindByCustomer(ctx, custID, models.SalePermanent, from, to)
}

func (s *LedgerService) withCredit(ctx context.Context, customers []models.Customer) ([]models.CustomerWithCredit, error) {
	ids := make([]primitive.ObjectID, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	totals, err := s.sales.PermanentTotalsByCustomer(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.CustomerWithCredit, len(customers))
	for i, c := range customers {
		out[i] = models.CustomerWithCredit{Customer: c, TotalCredit: totals[c.ID]}
	}
	return out, nil
}

// ListSales returns all sales newest first with customers resolved
func (s *LedgerService) ListSales(ctx context.Context) ([]models.SaleView, error) {
	return s.sales.ListWithCustomers(ctx)
}

func (s *LedgerService) Sale(ctx context.Context, id string) (*models.Sale, error) {
	saleID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NotFound("Sale not found")
	}
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, notFoundOr(err, "Sale not found")
	}
	return sale, nil
}

// UpdateSale changes descriptive fields only. Items, totals, customer and
// payments stay as recorded so the ledger cannot drift.
func (s *LedgerService) UpdateSale(ctx context.Context, id string, req models.UpdateSaleRequest) (*models.Sale, error) {
	sale, err := s.Sale(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CustomerInfo != nil {
		sale.CustomerInfo = req.CustomerInfo
	}
	if req.Subtotal != nil {
		sale.Subtotal = *req.Subtotal
	}
	if req.DiscountPercent != nil {
		sale.DiscountPercent = *req.DiscountPercent
	}
	if req.ServiceCharge != nil {
		sale.ServiceCharge = *req.ServiceCharge
	}
	if req.Tax != nil {
		sale.Tax = *req.Tax
	}
	if err := s.sales.UpdateDetails(ctx, sale); err != nil {
		return nil, notFoundOr(err, "Sale not found")
	}
	return sale, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
