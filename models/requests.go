package models

import "time"

// ProductInput carries optional product fields from either JSON or multipart
// bodies. Nil means "not supplied".
type ProductInput struct {
	Name          *string  `json:"name"`
	SKU           *string  `json:"sku"`
	Barcode       *string  `json:"barcode"`
	Category      *string  `json:"category"`
	Location      *string  `json:"location"`
	Brand         *string  `json:"brand"`
	Supplier      *string  `json:"supplier"`
	Unit          *string  `json:"unit"`
	Stock         *int     `json:"stock"`
	CostPrice     *float64 `json:"costPrice"`
	SalePrice     *float64 `json:"salePrice"`
	MinStockAlert *int     `json:"minStockAlert"`
}

type CreateEmployeeRequest struct {
	Name     string     `json:"name" validate:"required"`
	Phone    string     `json:"phone" validate:"required"`
	Email    string     `json:"email,omitempty" validate:"omitempty,email"`
	Role     string     `json:"role,omitempty" validate:"omitempty,oneof=manager cashier stock_keeper"`
	Salary   *float64   `json:"salary" validate:"required,gte=0"`
	JoinDate *time.Time `json:"joinDate,omitempty"`
	Address  string     `json:"address,omitempty"`
	CNIC     string     `json:"cnic,omitempty"`
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required,min=6"`
}

type UpdateEmployeeRequest struct {
	Name     *string    `json:"name,omitempty"`
	Phone    *string    `json:"phone,omitempty"`
	Email    *string    `json:"email,omitempty" validate:"omitempty,email"`
	Role     *string    `json:"role,omitempty" validate:"omitempty,oneof=manager cashier stock_keeper"`
	Salary   *float64   `json:"salary,omitempty" validate:"omitempty,gte=0"`
	JoinDate *time.Time `json:"joinDate,omitempty"`
	Address  *string    `json:"address,omitempty"`
	CNIC     *string    `json:"cnic,omitempty"`
	Username *string    `json:"username,omitempty"`
	Password *string    `json:"password,omitempty"`
	IsActive *bool      `json:"isActive,omitempty"`
}

type CustomerRequest struct {
	Name        string     `json:"name" validate:"required"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty" validate:"omitempty,email"`
	Gender      string     `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address     string     `json:"address,omitempty"`
	CNIC        string     `json:"cnic,omitempty"`
	CreditLimit *float64   `json:"creditLimit,omitempty" validate:"omitempty,gte=0"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// PaymentRequest is checked in order by the ledger, so it carries no tags.
type PaymentRequest struct {
	SaleID string  `json:"saleId"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Detail string  `json:"detail"`
}

type SaleItemRequest struct {
	Product string  `json:"product,omitempty"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty" validate:"gt=0"`
	Price   float64 `json:"price" validate:"gte=0"`
}

type PaymentInput struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount" validate:"gte=0"`
	Detail string  `json:"detail,omitempty"`
}

type CreateSaleRequest struct {
	Items           []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Customer        string            `json:"customer,omitempty"`
	CustomerInfo    *CustomerInfo     `json:"customerInfo,omitempty"`
	SaleType        string            `json:"saleType" validate:"required,oneof=cash permanent temporary"`
	Payments        []PaymentInput    `json:"payments,omitempty" validate:"dive"`
	Subtotal        float64           `json:"subtotal"`
	DiscountPercent float64           `json:"discountPercent"`
	ServiceCharge   float64           `json:"serviceCharge"`
	Tax             float64           `json:"tax"`
	Total           float64           `json:"total" validate:"gte=0"`
}

// UpdateSaleRequest only touches descriptive fields; ledger fields are not patchable.
type UpdateSaleRequest struct {
	CustomerInfo    *CustomerInfo `json:"customerInfo,omitempty"`
	Subtotal        *float64      `json:"subtotal,omitempty"`
	DiscountPercent *float64      `json:"discountPercent,omitempty"`
	ServiceCharge   *float64      `json:"serviceCharge,omitempty"`
	Tax             *float64      `json:"tax,omitempty"`
}

type ExpenseRequest struct {
	Type          string     `json:"type" validate:"required,oneof=salary purchase utility office food transport other"`
	Category      string     `json:"category" validate:"required"`
	Description   string     `json:"description" validate:"required"`
	Amount        *float64   `json:"amount" validate:"required,gte=0"`
	Employee      string     `json:"employee,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash bank credit"`
	Notes         string     `json:"notes,omitempty"`
}

type UpdateExpenseRequest struct {
	Type          *string    `json:"type,omitempty" validate:"omitempty,oneof=salary purchase utility office food transport other"`
	Category      *string    `json:"category,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Amount        *float64   `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Employee      *string    `json:"employee,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	PaymentMethod *string    `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash bank credit"`
	Notes         *string    `json:"notes,omitempty"`
}

type LocationRequest struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Phone         string `json:"phone,omitempty"`
	AssignedStaff string `json:"assignedStaff,omitempty"`
	IsActive      *bool  `json:"isActive,omitempty"`
}

type NotificationRequest struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	EmailData map[string]interface{} `json:"emailData,omitempty"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

type ShopSettingsRequest struct {
	ShopName *string `json:"shopName,omitempty"`
	Address  *string `json:"address,omitempty"`
	Location *string `json:"location,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	About    *string `json:"about,omitempty"`
	Logo     *string `json:"logo,omitempty"`
	Theme    *Theme  `json:"theme,omitempty"`
}
