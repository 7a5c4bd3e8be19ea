package domain

import "time"

// OrderStatus enumerates fulfillment states.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderItem is a single order line.
type OrderItem struct {
	PartNumber string  `json:"partNumber" yaml:"partNumber"`
	Name       string  `json:"name" yaml:"name"`
	Quantity   int     `json:"quantity" yaml:"quantity"`
	Price      float64 `json:"price" yaml:"price"`
}

// Order is seed order data used for status lookups.
type Order struct {
	ID                string      `json:"id" yaml:"id"`
	OrderNumber       string      `json:"orderNumber" yaml:"orderNumber"`
	Status            OrderStatus `json:"status" yaml:"status"`
	Items             []OrderItem `json:"items" yaml:"items"`
	ShippingAddress   string      `json:"shippingAddress" yaml:"shippingAddress"`
	TrackingNumber    string      `json:"trackingNumber,omitempty" yaml:"trackingNumber,omitempty"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty" yaml:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time   `json:"createdAt" yaml:"createdAt"`
}

// Total sums unit price times quantity over all items.
func (o Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
