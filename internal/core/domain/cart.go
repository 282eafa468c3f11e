package domain

// A LineItem is one product-quantity pair of a cart.
//
// Name, Price and Image are copied from the catalog when the item is added.
type LineItem struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// A Cart holds at most one [LineItem] per product and never keeps
// an item with quantity below 1.
type Cart []LineItem

func (c Cart) Find(productID int) (LineItem, bool) {
	if i := c.index(productID); i != -1 {
		return c[i], true
	}
	return LineItem{}, false
}

// Add puts the item into the cart or increases the quantity
// of the existing line for the same product.
func (c Cart) Add(item LineItem) Cart {
	if item.Quantity < 1 {
		return c
	}
	out := c.clone()
	if i := out.index(item.ProductID); i != -1 {
		out[i].Quantity += item.Quantity
		return out
	}
	return append(out, item)
}

// Change adds delta to the product quantity. A line that drops to zero
// or below is removed. Reports false when the product is not in the cart.
func (c Cart) Change(productID, delta int) (Cart, bool) {
	i := c.index(productID)
	if i == -1 {
		return c, false
	}
	out := c.clone()
	out[i].Quantity += delta
	if out[i].Quantity <= 0 {
		return out.Remove(productID), true
	}
	return out, true
}

func (c Cart) Remove(productID int) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// Merge folds the guest lines into c. Quantities of matching products
// are summed, a missing quantity counts as 1. Unmatched guest lines are
// appended in order.
func (c Cart) Merge(guest Cart) Cart {
	out := c.clone()
	for _, item := range guest {
		item.Quantity = atLeastOne(item.Quantity)
		if i := out.index(item.ProductID); i != -1 {
			out[i].Quantity = atLeastOne(out[i].Quantity) + item.Quantity
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c Cart) Count() (n int) {
	for _, item := range c {
		n += item.Quantity
	}
	return
}

func (c Cart) Total() (total float64) {
	for _, item := range c {
		total += item.Subtotal()
	}
	return
}

func (c Cart) index(productID int) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Validate reports [ErrInvalid] for a cart that holds a line with quantity
// below 1 or two lines of the same product.
func (c Cart) Validate() error {
	seen := make(map[int]struct{}, len(c))
	for _, item := range c {
		if item.Quantity < 1 {
			return ErrInvalid
		}
		if _, ok := seen[item.ProductID]; ok {
			return ErrInvalid
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}
