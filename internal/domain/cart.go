package domain

import "strings"

// Cart is an ordered list of product snapshots. Adding the same product twice
// yields two lines at full price; there is no quantity field.
type Cart struct {
	Items []Product `json:"items"`
}

func NewCart(items ...Product) *Cart {
	c := &Cart{}
	c.Items = append(c.Items, items...)
	return c
}

// Add appends a snapshot of p.
func (c *Cart) Add(p Product) {
	c.Items = append(c.Items, cloneProduct(p))
}

// RemoveAt drops the line at index i. Out-of-range indexes leave the cart
// unchanged and report false.
func (c *Cart) RemoveAt(i int) bool {
	if i < 0 || i >= len(c.Items) {
		return false
	}
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
	return true
}

// Total sums current prices; old prices are ignored.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, it := range c.Items {
		total += it.PriceValue()
	}
	return total
}

func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

func (c *Cart) Clear() { c.Items = nil }

// RemoveItems drops one line per entry of items, matching on DocumentID and
// taking the earliest matching line. Entries with no matching line are skipped.
func (c *Cart) RemoveItems(items []Product) {
	for _, it := range items {
		for i, line := range c.Items {
			if line.DocumentID == it.DocumentID {
				c.RemoveAt(i)
				break
			}
		}
	}
}

// Details joins line names in cart order, duplicates included.
func (c *Cart) Details() string {
	names := make([]string, len(c.Items))
	for i, it := range c.Items {
		names[i] = it.Name
	}
	return strings.Join(names, ", ")
}

func cloneProduct(p Product) Product {
	if p.Price != nil {
		v := *p.Price
		p.Price = &v
	}
	if p.OldPrice != nil {
		v := *p.OldPrice
		p.OldPrice = &v
	}
	if p.Specs != nil {
		specs := make(map[string]string, len(p.Specs))
		for k, v := range p.Specs {
			specs[k] = v
		}
		p.Specs = specs
	}
	if p.Description.Blocks != nil {
		p.Description.Blocks = append([]string(nil), p.Description.Blocks...)
	}
	return p
}
