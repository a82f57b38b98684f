package cms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megastore/internal/domain"
)

const base = "https://cms.example"

func decodeRaw(t *testing.T, s string) RawProduct {
	t.Helper()
	var r RawProduct
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}

func TestNormalize_FlatCapitalized(t *testing.T) {
	r := decodeRaw(t, `{
		"id": 7, "documentId": "abc7",
		"Name": "Phone A", "Price": 1000, "OldPrice": 1200,
		"Category": "smartphones", "IsPromo": true, "Rating": 4.5,
		"brand": "Acme", "specs": {"ram": "8GB", "cores": 8},
		"image": {"url": "/uploads/a.png"},
		"Description": "Fast phone"
	}`)

	p := NewNormalizer(base + "/").Normalize(r)

	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "abc7", p.DocumentID)
	assert.Equal(t, "Phone A", p.Name)
	require.NotNil(t, p.Price)
	assert.Equal(t, 1000.0, *p.Price)
	require.NotNil(t, p.OldPrice)
	assert.Equal(t, 1200.0, *p.OldPrice)
	assert.Equal(t, "smartphones", p.Category)
	assert.Equal(t, "Acme", p.Brand)
	assert.True(t, p.IsPromo)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, map[string]string{"ram": "8GB", "cores": "8"}, p.Specs)
	assert.Equal(t, base+"/uploads/a.png", p.Image)
	assert.Equal(t, domain.PlainText("Fast phone"), p.Description)
}

func TestNormalize_AttributesWrappedLowercase(t *testing.T) {
	r := decodeRaw(t, `{
		"id": 3,
		"attributes": {
			"name": "Laptop B", "price": 2000, "category": "laptops",
			"image": {"data": {"attributes": {"url": "/uploads/b.png"}}}
		}
	}`)

	p := NewNormalizer(base).Normalize(r)

	assert.Equal(t, "3", p.DocumentID, "document id falls back to numeric id")
	assert.Equal(t, "Laptop B", p.Name)
	assert.Equal(t, 2000.0, p.PriceValue())
	assert.Nil(t, p.OldPrice)
	assert.Equal(t, "laptops", p.Category)
	assert.Equal(t, base+"/uploads/b.png", p.Image)
	assert.Zero(t, p.Rating)
	assert.False(t, p.IsPromo)
	assert.True(t, p.Description.IsZero())
}

func TestNormalize_CapitalizedWinsEvenWhenZero(t *testing.T) {
	r := decodeRaw(t, `{"id":1,"Name":"Cap","name":"low","Price":0,"price":5,"IsPromo":false,"isPromo":true}`)

	p := NewNormalizer(base).Normalize(r)

	assert.Equal(t, "Cap", p.Name)
	require.NotNil(t, p.Price)
	assert.Zero(t, *p.Price)
	assert.False(t, p.IsPromo)
}

func TestNormalize_Images(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absolute https kept", `{"image":{"url":"https://res.cloudinary.com/x.png"}}`, "https://res.cloudinary.com/x.png"},
		{"absolute http kept", `{"image":{"url":"HTTP://media.example/x.png"}}`, "HTTP://media.example/x.png"},
		{"relative prefixed", `{"image":{"url":"/uploads/x.png"}}`, base + "/uploads/x.png"},
		{"relative without slash", `{"image":{"url":"uploads/x.png"}}`, base + "/uploads/x.png"},
		{"nested absolute", `{"image":{"data":{"attributes":{"url":"https://cdn.example/y.png"}}}}`, "https://cdn.example/y.png"},
		{"nested null", `{"image":{"data":null}}`, ""},
		{"nested list ignored", `{"image":{"data":[{"attributes":{"url":"/a.png"}}]}}`, ""},
		{"image null", `{"image":null}`, ""},
		{"no image", `{}`, ""},
	}
	n := NewNormalizer(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(decodeRaw(t, tt.raw)).Image)
		})
	}
}

func TestNormalize_RichTextDescription(t *testing.T) {
	r := decodeRaw(t, `{"description":[
		{"type":"paragraph","children":[{"type":"text","text":"Hello "},{"type":"text","text":"world"}]},
		{"type":"paragraph","children":[]},
		{"type":"paragraph","children":[{"type":"text","text":"Second"}]}
	]}`)

	p := NewNormalizer(base).Normalize(r)

	assert.Equal(t, []string{"Hello world", "", "Second"}, p.Description.Paragraphs())
}

func TestNormalize_MissingFieldsPassThrough(t *testing.T) {
	p := NewNormalizer(base).Normalize(decodeRaw(t, `{"id": 9}`))

	assert.Empty(t, p.Name)
	assert.Nil(t, p.Price)
	assert.False(t, p.HasPrice())
	assert.Zero(t, p.PriceValue())
	assert.Empty(t, p.Brand)
	assert.Nil(t, p.Specs)
}
