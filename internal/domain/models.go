package domain

import (
	"sort"
	"strings"
)

// Product is the canonical catalog record every layer above the CMS client works with.
type Product struct {
	ID          int               `json:"id"`
	DocumentID  string            `json:"documentId"` // stable key used in URLs
	Name        string            `json:"name"`
	Price       *float64          `json:"price,omitempty"`
	OldPrice    *float64          `json:"oldPrice,omitempty"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
	Image       string            `json:"image,omitempty"`
	IsPromo     bool              `json:"isPromo"`
	Rating      float64           `json:"rating"`
	Description Description       `json:"description"`
}

// PriceValue returns the current price, 0 when the CMS record had none.
func (p Product) PriceValue() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

func (p Product) HasPrice() bool { return p.Price != nil }

// Discounted reports whether an old price is present and positive.
func (p Product) Discounted() bool {
	return p.OldPrice != nil && *p.OldPrice > 0
}

func (p Product) OldPriceValue() float64 {
	if p.OldPrice == nil {
		return 0
	}
	return *p.OldPrice
}

type SpecRow struct {
	Key   string
	Value string
}

// SpecRows lists specs ordered by key.
func (p Product) SpecRows() []SpecRow {
	if len(p.Specs) == 0 {
		return nil
	}
	rows := make([]SpecRow, 0, len(p.Specs))
	for k, v := range p.Specs {
		rows = append(rows, SpecRow{Key: k, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// Description is either plain text or a sequence of rich-text paragraphs.
// The zero value means the CMS sent no description.
type Description struct {
	Text   string   `json:"text,omitempty"`
	Blocks []string `json:"blocks,omitempty"`
	Rich   bool     `json:"rich,omitempty"`
}

func PlainText(s string) Description { return Description{Text: s} }

func RichBlocks(paragraphs ...string) Description {
	return Description{Blocks: paragraphs, Rich: true}
}

func (d Description) IsRich() bool { return d.Rich }

func (d Description) IsZero() bool {
	return d.Text == "" && len(d.Blocks) == 0
}

// Paragraphs flattens either variant into displayable paragraphs.
func (d Description) Paragraphs() []string {
	if d.IsRich() {
		return d.Blocks
	}
	if d.Text == "" {
		return nil
	}
	return []string{d.Text}
}

func (d Description) String() string {
	return strings.Join(d.Paragraphs(), "\n")
}
