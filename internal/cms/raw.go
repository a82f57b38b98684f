package cms

import (
	"bytes"
	"encoding/json"
)

// RawProduct is one record as the CMS returns it. Older CMS versions wrap the
// fields in "attributes"; newer ones put them at the top level. Both decode here.
type RawProduct struct {
	ID         int            `json:"id"`
	DocumentID string         `json:"documentId"`
	Attributes *RawAttributes `json:"attributes"`
	RawAttributes
}

// Fields returns the attribute set regardless of record shape.
func (r RawProduct) Fields() RawAttributes {
	if r.Attributes != nil {
		return *r.Attributes
	}
	return r.RawAttributes
}

// RawAttributes carries both capitalized and lowercase spellings the CMS
// content types have used over time.
type RawAttributes struct {
	NameCap        *string         `json:"Name"`
	Name           *string         `json:"name"`
	PriceCap       *float64        `json:"Price"`
	Price          *float64        `json:"price"`
	OldPriceCap    *float64        `json:"OldPrice"`
	OldPrice       *float64        `json:"oldPrice"`
	CategoryCap    *string         `json:"Category"`
	Category       *string         `json:"category"`
	IsPromoCap     *bool           `json:"IsPromo"`
	IsPromo        *bool           `json:"isPromo"`
	RatingCap      *float64        `json:"Rating"`
	Rating         *float64        `json:"rating"`
	DescriptionCap json.RawMessage `json:"Description"`
	Description    json.RawMessage `json:"description"`
	Brand          *string         `json:"brand"`
	Specs          map[string]any  `json:"specs"`
	Image          *RawImage       `json:"image"`
}

// RawImage is a media field: either {url} or {data: {attributes: {url}}}.
type RawImage struct {
	URL  string          `json:"url"`
	Data json.RawMessage `json:"data"`
}

// NestedURL digs out data.attributes.url; it is empty when data is null,
// a list, or lacks the path.
func (i RawImage) NestedURL() string {
	data := bytes.TrimSpace(i.Data)
	if len(data) == 0 || data[0] != '{' {
		return ""
	}
	var nested struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return ""
	}
	return nested.Attributes.URL
}

type rawBlock struct {
	Type     string `json:"type"`
	Children []struct {
		Text string `json:"text"`
	} `json:"children"`
}

type listEnvelope struct {
	Data []RawProduct `json:"data"`
}

type itemEnvelope struct {
	Data *RawProduct `json:"data"`
}

type orderEnvelope struct {
	Data any `json:"data"`
}
