package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCustomers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Customer
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{byID: map[primitive.ObjectID]*models.Customer{}}
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if c.Phone != "" && existing.Phone == c.Phone {
			return repositories.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCustomers) FindByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) ListByName(_ context.Context) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Customer{}
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCustomers) IncrementBalances(_ context.Context, id primitive.ObjectID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.TotalPurchases += amount
	c.RemainingDue += amount
	return nil
}

func (f *fakeCustomers) ApplyPayment(_ context.Context, id primitive.ObjectID, amount float64) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.TotalPaid += amount
	c.RemainingDue -= amount
	if c.RemainingDue < 0 {
		c.RemainingDue = 0
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) SumRemainingDue(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, c := range f.byID {
		total += c.RemainingDue
	}
	return total, nil
}

type fakeSales struct {
	mu    sync.Mutex
	sales []*models.Sale
}

func (f *fakeSales) Create(_ context.Context, s *models.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = primitive.NewObjectID()
	cp := *s
	cp.Payments = append([]models.Payment{}, s.Payments...)
	f.sales = append(f.sales, &cp)
	return nil
}

func (f *fakeSales) get(id primitive.ObjectID) *models.Sale {
	for _, s := range f.sales {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (f *fakeSales) FindByID(_ context.Context, id primitive.ObjectID) (*models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.get(id)
	if s == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSales) ListWithCustomers(_ context.Context) ([]models.SaleView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SaleView{}
	for i := len(f.sales) - 1; i >= 0; i-- {
		out = append(out, models.SaleView{Sale: *f.sales[i]})
	}
	return out, nil
}

func inWindow(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func (f *fakeSales) FindCreatedBetween(_ context.Context, from, to *time.Time) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Sale{}
	for _, s := range f.sales {
		if inWindow(s.CreatedAt, from, to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSales) FindByCustomer(_ context.Context, customerID primitive.ObjectID, saleType string, from, to *time.Time) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Sale{}
	for i := len(f.sales) - 1; i >= 0; i-- {
		s := f.sales[i]
		if s.Customer == nil || *s.Customer != customerID || s.SaleType != saleType {
			continue
		}
		if inWindow(s.CreatedAt, from, to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSales) UpdateDetails(_ context.Context, sale *models.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.get(sale.ID)
	if s == nil {
		return repositories.ErrNotFound
	}
	s.CustomerInfo = sale.CustomerInfo
	s.Subtotal = sale.Subtotal
	s.DiscountPercent = sale.DiscountPercent
	s.ServiceCharge = sale.ServiceCharge
	s.Tax = sale.Tax
	return nil
}

func (f *fakeSales) AppendPayment(_ context.Context, id primitive.ObjectID, p models.Payment) (*models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.get(id)
	if s == nil {
		return nil, repositories.ErrNotFound
	}
	s.Payments = append(s.Payments, p)
	s.PaidAmount += p.Amount
	cp := *s
	return &cp, nil
}

func (f *fakeSales) SummarySince(_ context.Context, since time.Time) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	var count int64
	for _, s := range f.sales {
		if !s.CreatedAt.Before(since) {
			total += s.Total
			count++
		}
	}
	return total, count, nil
}

func (f *fakeSales) SumPaymentsBetween(_ context.Context, from, to time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, s := range f.sales {
		if s.SaleType == models.SaleCash {
			continue
		}
		for _, p := range s.Payments {
			if inWindow(p.Date, &from, &to) {
				total += p.Amount
			}
		}
	}
	return total, nil
}

func (f *fakeSales) SumTemporaryOutstanding(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, s := range f.sales {
		if s.SaleType == models.SaleTemporary {
			total += s.Total - s.PaidAmount
		}
	}
	return total, nil
}

func (f *fakeSales) PermanentTotalsByCustomer(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := map[primitive.ObjectID]float64{}
	for _, s := range f.sales {
		if s.SaleType == models.SalePermanent && s.Customer != nil && wanted[*s.Customer] {
			out[*s.Customer] += s.Total
		}
	}
	return out, nil
}

type fakeProducts struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Product
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{byID: map[primitive.ObjectID]*models.Product{}}
	for i := range products {
		p := products[i]
		f.byID[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (f *fakeProducts) AdjustStock(_ context.Context, id primitive.ObjectID, delta int) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Stock += delta
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) CountLowStock(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.byID {
		if p.IsLowStock() {
			n++
		}
	}
	return n, nil
}

type fakeEmployees struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Employee
}

func newFakeEmployees() *fakeEmployees {
	return &fakeEmployees{byID: map[primitive.ObjectID]*models.Employee{}}
}

func (f *fakeEmployees) Create(_ context.Context, e *models.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Username == e.Username {
			return repositories.ErrDuplicate
		}
	}
	e.ID = primitive.NewObjectID()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) FindByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) FindByUsername(_ context.Context, username string) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.byID {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEmployees) List(_ context.Context) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Employee{}
	for _, e := range f.byID {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEmployees) Replace(_ context.Context, e *models.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[e.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	history, month, status := existing.SalaryHistory, existing.LastPaidMonth, existing.SalaryStatus
	cp := *e
	cp.SalaryHistory, cp.LastPaidMonth, cp.SalaryStatus = history, month, status
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEmployees) RecordSalary(_ context.Context, id primitive.ObjectID, r models.SalaryRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok || e.LastPaidMonth == r.Month {
		return false, nil
	}
	e.SalaryHistory = append(e.SalaryHistory, r)
	e.LastPaidMonth = r.Month
	e.SalaryStatus = models.SalaryPaid
	return true, nil
}

type fakeOwners struct {
	mu    sync.Mutex
	owner *models.Owner
}

func (f *fakeOwners) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owner == nil {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeOwners) Create(_ context.Context, o *models.Owner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owner != nil {
		return repositories.ErrDuplicate
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	f.owner = &cp
	return nil
}

func (f *fakeOwners) FindByEmail(_ context.Context, email string) (*models.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owner == nil || !strings.EqualFold(f.owner.Email, email) {
		return nil, repositories.ErrNotFound
	}
	cp := *f.owner
	return &cp, nil
}

func (f *fakeOwners) FindByID(_ context.Context, id primitive.ObjectID) (*models.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owner == nil || f.owner.ID != id {
		return nil, repositories.ErrNotFound
	}
	cp := *f.owner
	return &cp, nil
}

func (f *fakeOwners) SetResetCode(_ context.Context, id primitive.ObjectID, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owner == nil || f.owner.ID != id {
		return repositories.ErrNotFound
	}
	f.owner.ResetPasswordCode = code
	f.owner.ResetPasswordExpires = &expires
	return nil
}

func (f *fakeOwners) CompletePasswordReset(_ context.Context, id primitive.ObjectID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owner == nil || f.owner.ID != id {
		return repositories.ErrNotFound
	}
	f.owner.Password = hash
	f.owner.TokenVersion++
	f.owner.ResetPasswordCode = ""
	f.owner.ResetPasswordExpires = nil
	return nil
}

type fakeNotifications struct {
	mu    sync.Mutex
	items []*models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = primitive.NewObjectID()
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeNotifications) find(id primitive.ObjectID) *models.Notification {
	for _, n := range f.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (f *fakeNotifications) SetEmailSent(_ context.Context, id primitive.ObjectID, sent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.find(id)
	if n == nil {
		return repositories.ErrNotFound
	}
	n.EmailSent = sent
	return nil
}

func (f *fakeNotifications) List(_ context.Context) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, *f.items[i])
	}
	return out, nil
}

func (f *fakeNotifications) CountUnread(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkAllRead(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if item := f.find(id); item != nil && !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkOneRead(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := f.find(id)
	if item == nil {
		return nil, repositories.ErrNotFound
	}
	item.IsRead = true
	cp := *item
	return &cp, nil
}

func (f *fakeNotifications) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotifications) DeleteAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.items))
	f.items = nil
	return n, nil
}

type fakeSettings struct {
	settings models.ShopSettings
}

func (f *fakeSettings) Get(_ context.Context) (*models.ShopSettings, error) {
	cp := f.settings
	return &cp, nil
}

// recordingNotifier collects notifications raised by other services
type recordingNotifier struct {
	mu    sync.Mutex
	calls []models.NotificationRequest
}

func (r *recordingNotifier) Notify(_ context.Context, notifType, message string, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, models.NotificationRequest{Type: notifType, Message: message, EmailData: data})
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Type
	}
	return out
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeHub struct {
	mu       sync.Mutex
	received []models.Notification
}

func (h *fakeHub) Broadcast(n models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, n)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
