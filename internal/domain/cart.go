package domain

// CartLine is one product in a cart. Quantity is always positive.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartSnapshot holds at most one line per product id.
type CartSnapshot struct {
	Items []CartLine `json:"items"`
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// Find returns the index of the line for productID, or -1.
func (s CartSnapshot) Find(productID string) int {
	for i, line := range s.Items {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s CartSnapshot) Line(productID string) (CartLine, bool) {
	if i := s.Find(productID); i >= 0 {
		return s.Items[i], true
	}
	return CartLine{}, false
}

// Count is the total number of units across all lines.
func (s CartSnapshot) Count() int {
	n := 0
	for _, line := range s.Items {
		n += line.Quantity
	}
	return n
}

func (s CartSnapshot) Subtotal() float64 {
	var total float64
	for _, line := range s.Items {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// Clone returns a copy that shares no backing array with s.
func (s CartSnapshot) Clone() CartSnapshot {
	if s.Items == nil {
		return CartSnapshot{}
	}
	items := make([]CartLine, len(s.Items))
	copy(items, s.Items)
	return CartSnapshot{Items: items}
}
