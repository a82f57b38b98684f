package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megastore/internal/domain"
)

func price(v float64) *float64 { return &v }

func TestCart_AddTotalRemove(t *testing.T) {
	p1 := domain.Product{ID: 1, DocumentID: "a", Name: "Phone A", Price: price(1000)}
	p2 := domain.Product{ID: 2, DocumentID: "b", Name: "Laptop B", Price: price(2000), OldPrice: price(2500)}

	c := domain.NewCart()
	assert.Zero(t, c.Total())
	assert.True(t, c.Empty())

	c.Add(p1)
	c.Add(p2)
	assert.Equal(t, 3000.0, c.Total())
	assert.Equal(t, 2, c.Len())

	require.True(t, c.RemoveAt(0))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Laptop B", c.Items[0].Name)
}

func TestCart_RemoveOutOfRange(t *testing.T) {
	c := domain.NewCart(domain.Product{Name: "Phone A", Price: price(10)})

	assert.False(t, c.RemoveAt(1))
	assert.False(t, c.RemoveAt(-1))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 10.0, c.Total())
}

func TestCart_DuplicatesAndDetails(t *testing.T) {
	p := domain.Product{Name: "Phone A", Price: price(1000)}
	c := domain.NewCart()
	c.Add(p)
	c.Add(p)
	c.Add(domain.Product{Name: "No price"})

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2000.0, c.Total())
	assert.Equal(t, "Phone A, Phone A, No price", c.Details())

	c.Clear()
	assert.True(t, c.Empty())
	assert.Empty(t, c.Details())
}

func TestCart_AddTakesSnapshot(t *testing.T) {
	p := domain.Product{Name: "Phone A", Price: price(1000), Specs: map[string]string{"ram": "8GB"}}
	c := domain.NewCart()
	c.Add(p)

	*p.Price = 1
	p.Specs["ram"] = "4GB"

	assert.Equal(t, 1000.0, c.Total())
	assert.Equal(t, "8GB", c.Items[0].Specs["ram"])
}

func TestNewOrder(t *testing.T) {
	c := domain.NewCart(
		domain.Product{Name: "Phone A", Price: price(1000)},
		domain.Product{Name: "Phone A", Price: price(1000)},
	)
	o := domain.NewOrder("Olena", "+38 (099) 123-45-67", c)

	assert.Equal(t, domain.Order{
		ClientName:   "Olena",
		ClientPhone:  "+38 (099) 123-45-67",
		Total:        2000,
		OrderDetails: "Phone A, Phone A",
	}, o)
}

func TestDescription_Paragraphs(t *testing.T) {
	assert.Nil(t, domain.Description{}.Paragraphs())
	assert.True(t, domain.Description{}.IsZero())
	assert.Equal(t, []string{"plain"}, domain.PlainText("plain").Paragraphs())
	assert.Equal(t, []string{"one", "two"}, domain.RichBlocks("one", "two").Paragraphs())
	assert.Equal(t, "one\ntwo", domain.RichBlocks("one", "two").String())
}

func TestCart_RemoveItemsKeepsOthers(t *testing.T) {
	a := domain.Product{DocumentID: "a", Name: "A"}
	b := domain.Product{DocumentID: "b", Name: "B"}
	c := domain.NewCart(a, b, a, b)

	c.RemoveItems([]domain.Product{a, b, {DocumentID: "gone"}})

	assert.Equal(t, "A, B", c.Details())
}

func TestDescription_EmptyRichSurvivesSnapshot(t *testing.T) {
	c := domain.NewCart(domain.Product{Name: "TV", Description: domain.RichBlocks()})

	raw, err := json.Marshal(c.Items[0])
	require.NoError(t, err)
	var back domain.Product
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.True(t, back.Description.IsRich())
	assert.True(t, back.Description.IsZero())
	assert.Empty(t, back.Description.Paragraphs())
	assert.False(t, domain.PlainText("x").IsRich())
}

func TestProduct_SpecRowsSorted(t *testing.T) {
	p := domain.Product{Specs: map[string]string{"screen": "6.1", "battery": "4000", "cpu": "A17"}}
	rows := p.SpecRows()
	require.Len(t, rows, 3)
	assert.Equal(t, "battery", rows[0].Key)
	assert.Equal(t, "cpu", rows[1].Key)
	assert.Equal(t, "screen", rows[2].Key)
}
