package domain

// OrderItem is a single line of a finalized order.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// OrderDetails is the structured payload the assistant emits once the user
// has finished ordering.
type OrderDetails struct {
	Items        []OrderItem `json:"items"`
	DeliveryTime string      `json:"deliveryTime"`
}

// TotalQuantity sums the quantity of every item.
func (o OrderDetails) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
