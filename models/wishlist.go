package models

type Wishlist struct {
	ID         string    `json:"id,omitempty"`
	UserID     string    `json:"user,omitempty"`
	ProductIDs []string  `json:"-"`
	Products   []Product `json:"products"`
}

// Contains reports whether productID is already wished for.
func (w *Wishlist) Contains(productID string) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Remove(productID string) {
	kept := w.ProductIDs[:0]
	for _, id := range w.ProductIDs {
		if id != productID {
			kept = append(kept, id)
		}
	}
	w.ProductIDs = kept
}
