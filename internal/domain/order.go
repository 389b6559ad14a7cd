package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Order mirrors the backend's order resource. The backend owns the order
// lifecycle; this side only renders it.
type Order struct {
	ID               int64
	OrderNumber      string
	Status           OrderStatus
	PaymentStatus    string
	SubtotalKRW      int64
	ShippingCostKRW  int64
	TotalAmount      int64
	ShippingName     string
	ShippingPhone    string
	ShippingAddress1 string
	ShippingAddress2 string
	Items            []OrderItem
	CreatedAt        time.Time
}

func (o Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaid
}

type OrderItem struct {
	ID           int64
	ProductID    int64
	ProductTitle string
	VariantName  string
	Quantity     int
	UnitPrice    int64
}

type Address struct {
	ID            int64
	RecipientName string
	Phone         string
	ZipCode       string
	Address1      string
	Address2      string
	IsDefault     bool
}
