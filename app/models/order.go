package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/pkg/orm"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusOnHold     = "on_hold"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusFailed     = "failed"
)

// Statuses lists every order status with its label, in workflow order.
func Statuses() []Status {
	return []Status{
		{StatusPending, "Pending"},
		{StatusOnHold, "On Hold"},
		{StatusInProgress, "In Progress"},
		{StatusCompleted, "Completed"},
		{StatusCancelled, "Cancelled"},
		{StatusFailed, "Failed"},
	}
}

type Status struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	for _, st := range Statuses() {
		if st.Value == s {
			return true
		}
	}
	return false
}

// Order is a customer purchase.
type Order struct {
	Model
	SoftDeletes
	UserID   *uint           `gorm:"index" json:"user_id"`
	User     *User           `json:"user,omitempty"`
	Token    string          `gorm:"size:36;uniqueIndex" json:"token"`
	Status   string          `gorm:"size:32;not null;default:pending;index" json:"status"`
	Currency string          `gorm:"size:3;not null;default:usd" json:"currency"`
	Discount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Items    []Item          `json:"items,omitempty"`
	Shipping *Shipping       `json:"shipping,omitempty"`
	Address  *Address        `gorm:"polymorphic:Addressable;polymorphicValue:order" json:"address,omitempty"`
}

func (Order) TableName() string { return OrdersTable }

// BeforeCreate assigns the public token.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.Token == "" {
		o.Token = uuid.NewString()
	}
	return nil
}

// Total is the gross value of the items plus shipping, before discount.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Total())
	}
	if o.Shipping != nil {
		total = total.Add(o.Shipping.Total())
	}
	return total
}

// Tax sums the tax of items and shipping.
func (o Order) Tax() decimal.Decimal {
	tax := decimal.Zero
	for _, it := range o.Items {
		tax = tax.Add(it.Tax.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if o.Shipping != nil {
		tax = tax.Add(o.Shipping.Tax)
	}
	return tax
}

// NetTotal is Total minus Discount, never below zero.
func (o Order) NetTotal() decimal.Decimal {
	net := o.Total().Sub(o.Discount)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// Item is a line of an order.
type Item struct {
	Model
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID *uint           `gorm:"index" json:"product_id"`
	VariantID *uint           `gorm:"index" json:"variant_id"`
	Name      string          `gorm:"size:255" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Tax       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
}

func (Item) TableName() string { return ItemsTable }

// Total is (price + tax) * quantity.
func (i Item) Total() decimal.Decimal {
	return i.Price.Add(i.Tax).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Shipping is the delivery attached to an order.
type Shipping struct {
	Model
	OrderID uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	Driver  string          `gorm:"size:64;not null;default:local-pickup" json:"driver"`
	Cost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	Tax     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`
}

func (Shipping) TableName() string { return ShippingsTable }

// Total is cost plus tax.
func (s Shipping) Total() decimal.Decimal { return s.Cost.Add(s.Tax) }

// OrderAddress correlates an order with its billing address.
var OrderAddress = orm.Relation{
	Model: &Address{},
	On:    AddressesTable + ".addressable_id = " + OrdersTable + ".id AND " + AddressesTable + ".addressable_type = ?",
	Args:  []interface{}{"order"},
}

// OrderUser correlates an order with its customer.
var OrderUser = orm.Relation{
	Model: &User{},
	On:    UsersTable + ".id = " + OrdersTable + ".user_id",
}
