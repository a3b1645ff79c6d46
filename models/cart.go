package models

import "time"

type Cart struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user,omitempty"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
}

type CartItem struct {
	ProductID string   `json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
}

// Add sums quantity into an existing line for productID or appends a new one.
func (c *Cart) Add(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
}

// Remove drops the line for productID; it is a no-op when absent.
func (c *Cart) Remove(productID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Snapshot copies the lines into order items without product data.
func (c *Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}
