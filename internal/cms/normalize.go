package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"megastore/internal/domain"
)

// Normalizer maps raw CMS records onto domain.Product. Media paths that are not
// absolute URLs are resolved against BaseURL.
type Normalizer struct {
	BaseURL string
}

func NewNormalizer(baseURL string) Normalizer {
	return Normalizer{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Normalize never fails: missing fields stay zero/nil and callers must cope.
func (n Normalizer) Normalize(r RawProduct) domain.Product {
	a := r.Fields()

	p := domain.Product{
		ID:          r.ID,
		DocumentID:  r.DocumentID,
		Name:        firstString(a.NameCap, a.Name),
		Price:       firstFloat(a.PriceCap, a.Price),
		OldPrice:    firstFloat(a.OldPriceCap, a.OldPrice),
		Category:    firstString(a.CategoryCap, a.Category),
		Specs:       specs(a.Specs),
		Image:       n.imageURL(a.Image),
		Description: description(a.DescriptionCap, a.Description),
	}
	if p.DocumentID == "" && r.ID != 0 {
		p.DocumentID = strconv.Itoa(r.ID)
	}
	if a.Brand != nil {
		p.Brand = strings.TrimSpace(*a.Brand)
	}
	if v := firstBool(a.IsPromoCap, a.IsPromo); v != nil {
		p.IsPromo = *v
	}
	if v := firstFloat(a.RatingCap, a.Rating); v != nil {
		p.Rating = *v
	}
	return p
}

func (n Normalizer) NormalizeAll(rs []RawProduct) []domain.Product {
	out := make([]domain.Product, 0, len(rs))
	for _, r := range rs {
		out = append(out, n.Normalize(r))
	}
	return out
}

func (n Normalizer) imageURL(img *RawImage) string {
	if img == nil {
		return ""
	}
	raw := img.URL
	if raw == "" {
		raw = img.NestedURL()
	}
	if raw == "" {
		return ""
	}
	if isAbsoluteURL(raw) {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return n.BaseURL + raw
}

func isAbsoluteURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func firstString(vs ...*string) string {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstFloat(vs ...*float64) *float64 {
	for _, v := range vs {
		if v != nil {
			x := *v
			return &x
		}
	}
	return nil
}

func firstBool(vs ...*bool) *bool {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func specs(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch x := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = x
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}

// description decodes the first present spelling as either a string or a list
// of rich-text blocks whose children texts are concatenated per block.
func description(msgs ...json.RawMessage) domain.Description {
	for _, m := range msgs {
		m = bytes.TrimSpace(m)
		if len(m) == 0 || bytes.Equal(m, []byte("null")) {
			continue
		}
		switch m[0] {
		case '"':
			var s string
			if err := json.Unmarshal(m, &s); err == nil {
				return domain.PlainText(s)
			}
		case '[':
			var blocks []rawBlock
			if err := json.Unmarshal(m, &blocks); err == nil {
				paras := make([]string, 0, len(blocks))
				for _, b := range blocks {
					var sb strings.Builder
					for _, ch := range b.Children {
						sb.WriteString(ch.Text)
					}
					paras = append(paras, sb.String())
				}
				return domain.RichBlocks(paras...)
			}
		}
		return domain.Description{}
	}
	return domain.Description{}
}
