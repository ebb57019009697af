package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a login identity. Role is fixed at registration time and
// decides which surface (customer, vendor, admin) the account can reach.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Vendor is a seller profile attached to an account. Pincodes holds the
// raw comma separated list as entered; delivery matching parses it.
type Vendor struct {
	ID               int64        `db:"id" json:"id"`
	AccountID        int64        `db:"account_id" json:"account_id"`
	ShopName         string       `db:"shop_name" json:"shop_name"`
	Slug             string       `db:"slug" json:"slug"`
	OwnerName        string       `db:"owner_name" json:"owner_name"`
	Email            string       `db:"email" json:"email"`
	Phone            string       `db:"phone" json:"phone"`
	Address          string       `db:"address" json:"address"`
	City             string       `db:"city" json:"city"`
	State            string       `db:"state" json:"state"`
	Pincodes         string       `db:"pincodes" json:"pincodes"`
	Latitude         *float64     `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64     `db:"longitude" json:"longitude,omitempty"`
	DeliveryRadiusKM float64      `db:"delivery_radius_km" json:"delivery_radius_km"`
	Status           VendorStatus `db:"status" json:"status"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

// IsApproved reports whether the vendor may sell.
func (v *Vendor) IsApproved() bool {
	return v.Status == VendorApproved
}

// Category groups products. Image assets are looked up from config by
// slug, not stored here.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Product is a vendor-owned catalog entry. Quantity is the live stock
// count and never goes negative.
type Product struct {
	ID                int64            `db:"id" json:"id"`
	VendorID          int64            `db:"vendor_id" json:"vendor_id"`
	CategoryID        *int64           `db:"category_id" json:"category_id,omitempty"`
	Name              string           `db:"name" json:"name"`
	Slug              string           `db:"slug" json:"slug"`
	Description       string           `db:"description" json:"description"`
	Price             decimal.Decimal  `db:"price" json:"price"`
	DiscountPrice     *decimal.Decimal `db:"discount_price" json:"discount_price,omitempty"`
	Quantity          int              `db:"quantity" json:"quantity"`
	Unit              string           `db:"unit" json:"unit"`
	LowStockThreshold int              `db:"low_stock_threshold" json:"low_stock_threshold"`
	ImageURL          string           `db:"image_url" json:"image_url"`
	IsAvailable       bool             `db:"is_available" json:"is_available"`
	IsActive          bool             `db:"is_active" json:"is_active"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

// DisplayPrice returns the discount price when one is set, otherwise the
// regular price. Cart totals and order snapshots both use this.
func (p *Product) DisplayPrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// LowStock reports whether stock is positive but at or below the
// vendor's alert threshold.
func (p *Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity <= p.LowStockThreshold
}

// Savings returns the discount amount, zero when no discount applies.
func (p *Product) Savings() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price) {
		return p.Price.Sub(*p.DiscountPrice)
	}
	return decimal.Zero
}

// Cart is the single open cart for an account.
type Cart struct {
	ID        int64     `db:"id" json:"id"`
	AccountID int64     `db:"account_id" json:"account_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartItem is one product line in a cart. (cart_id, product_id) is
// unique; re-adding a product bumps the quantity instead.
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	CartID    int64     `db:"cart_id" json:"cart_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	AddedAt   time.Time `db:"added_at" json:"added_at"`
}

// CartLine is a cart item joined with the live product row. Prices here
// are current catalog prices, not frozen ones.
type CartLine struct {
	ItemID        int64            `db:"item_id" json:"item_id"`
	ProductID     int64            `db:"product_id" json:"product_id"`
	ProductName   string           `db:"product_name" json:"product_name"`
	ProductSlug   string           `db:"product_slug" json:"product_slug"`
	Unit          string           `db:"unit" json:"unit"`
	Price         decimal.Decimal  `db:"price" json:"price"`
	DiscountPrice *decimal.Decimal `db:"discount_price" json:"discount_price,omitempty"`
	Quantity      int              `db:"quantity" json:"quantity"`
	Stock         int              `db:"stock" json:"stock"`
	IsAvailable   bool             `db:"is_available" json:"is_available"`
}

// UnitPrice returns the current display price for the line.
func (l *CartLine) UnitPrice() decimal.Decimal {
	if l.DiscountPrice != nil {
		return *l.DiscountPrice
	}
	return l.Price
}

// LineTotal returns quantity times the current display price.
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a placed customer order. TotalAmount is frozen at checkout.
type Order struct {
	ID                int64           `db:"id" json:"id"`
	AccountID         int64           `db:"account_id" json:"account_id"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod     string          `db:"payment_method" json:"payment_method"`
	IsPaid            bool            `db:"is_paid" json:"is_paid"`
	DeliveryAddress   string          `db:"delivery_address" json:"delivery_address"`
	DeliveryLatitude  *float64        `db:"delivery_latitude" json:"delivery_latitude,omitempty"`
	DeliveryLongitude *float64        `db:"delivery_longitude" json:"delivery_longitude,omitempty"`
	CustomerName      string          `db:"customer_name" json:"customer_name"`
	CustomerPhone     string          `db:"customer_phone" json:"customer_phone"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem is one fulfillable line of an order. Price is the unit
// display price captured at checkout and never changes afterwards.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	VendorID  int64           `db:"vendor_id" json:"vendor_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Status    ItemStatus      `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TotalPrice returns quantity times the frozen unit price.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemDetail is an order item joined with its product and the
// parent order's customer fields. Used by vendor order screens, customer
// history and cancellation.
type OrderItemDetail struct {
	ItemID          int64           `db:"item_id" json:"item_id"`
	OrderID         int64           `db:"order_id" json:"order_id"`
	ProductID       int64           `db:"product_id" json:"product_id"`
	ProductName     string          `db:"product_name" json:"product_name"`
	VendorID        int64           `db:"vendor_id" json:"vendor_id"`
	Quantity        int             `db:"quantity" json:"quantity"`
	Price           decimal.Decimal `db:"price" json:"price"`
	Status          ItemStatus      `db:"status" json:"status"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone"`
	DeliveryAddress string          `db:"delivery_address" json:"delivery_address"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	IsPaid          bool            `db:"is_paid" json:"is_paid"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// TotalPrice returns quantity times the frozen unit price.
func (d *OrderItemDetail) TotalPrice() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// ContactMessage is a support message from the customer or vendor side.
type ContactMessage struct {
	ID        int64     `db:"id" json:"id"`
	AccountID *int64    `db:"account_id" json:"account_id,omitempty"`
	Source    string    `db:"source" json:"source"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Contact message sources.
const (
	ContactSourceUser   = "user"
	ContactSourceVendor = "vendor"
)

// VendorDashboard holds the headline numbers for the vendor home screen.
// Revenue figures count Delivered items only.
type VendorDashboard struct {
	TotalProducts    int             `json:"total_products"`
	ActiveProducts   int             `json:"active_products"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalOrders      int             `json:"total_orders"`
	PendingOrders    int             `json:"pending_orders"`
	DeliveredOrders  int             `json:"delivered_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	WeekRevenue      decimal.Decimal `json:"week_revenue"`
	MonthRevenue     decimal.Decimal `json:"month_revenue"`
}

// ProductRevenue is one row of the revenue-by-product breakdown.
type ProductRevenue struct {
	ProductName string          `db:"product_name" json:"product_name"`
	Revenue     decimal.Decimal `db:"revenue" json:"revenue"`
	Orders      int             `db:"orders" json:"orders"`
}

// CategoryRevenue is one row of the revenue-by-category breakdown.
// Items whose product lost its category report as Uncategorized.
type CategoryRevenue struct {
	CategoryName string          `db:"category_name" json:"category_name"`
	Revenue      decimal.Decimal `db:"revenue" json:"revenue"`
	Orders       int             `db:"orders" json:"orders"`
}

// SalesRow is one line of the delivered-sales export.
type SalesRow struct {
	OrderID     int64           `db:"order_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
	Status      ItemStatus      `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Total returns quantity times unit price for the row.
func (r *SalesRow) Total() decimal.Decimal {
	return r.Price.Mul(decimal.NewFromInt(int64(r.Quantity)))
}
