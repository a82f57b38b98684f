package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"megastore/internal/validate"
)

func TestCheckout_Validity(t *testing.T) {
	tests := []struct {
		name   string
		form   validate.Checkout
		valid  bool
		fields []string
	}{
		{"valid", validate.Checkout{Name: "Olena", Phone: "+38 (099) 123-45-67"}, true, nil},
		{"empty name", validate.Checkout{Name: "", Phone: "+38 (099) 123-45-67"}, false, []string{"name"}},
		{"blank name", validate.Checkout{Name: "   ", Phone: "+38 (099) 123-45-67"}, false, []string{"name"}},
		{"partial mask", validate.Checkout{Name: "Olena", Phone: "+38 (099) 123-45-6"}, false, []string{"phone"}},
		{"unfilled mask", validate.Checkout{Name: "Olena", Phone: "+38 (0__) ___-__-__"}, false, []string{"phone"}},
		{"19 chars wrong format", validate.Checkout{Name: "Olena", Phone: "380991234567_______"}, false, []string{"phone"}},
		{"both invalid", validate.Checkout{}, false, []string{"name", "phone"}},
		{"name too long", validate.Checkout{Name: strings.Repeat("a", 101), Phone: "+38 (099) 123-45-67"}, false, []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.form.Valid())
			assert.Equal(t, tt.fields, tt.form.Fields())
		})
	}
}

func TestPhone_Length(t *testing.T) {
	assert.Len(t, "+38 (099) 123-45-67", 19)
	assert.True(t, validate.Phone("+38 (099) 123-45-67"))
	assert.False(t, validate.Phone("+38 (099) 123-45-6"))
	assert.False(t, validate.Phone("+38 (199) 123-45-67"))
}

func TestQ(t *testing.T) {
	q, ok := validate.Q("  Смартфон  ")
	assert.True(t, ok)
	assert.Equal(t, "Смартфон", q)

	_, ok = validate.Q("<script>")
	assert.False(t, ok)

	_, ok = validate.Q("   ")
	assert.False(t, ok)

	q, ok = validate.Q(" " + strings.Repeat("я", 50) + " ")
	assert.True(t, ok)
	assert.Equal(t, 50, len([]rune(q)))

	_, ok = validate.Q(strings.Repeat("я", 51))
	assert.False(t, ok)
}

func TestIDAndIndex(t *testing.T) {
	_, ok := validate.ID("abc-123_X")
	assert.True(t, ok)
	_, ok = validate.ID("../etc")
	assert.False(t, ok)

	n, ok := validate.Index("2")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = validate.Index("-1")
	assert.False(t, ok)
	_, ok = validate.Index("x")
	assert.False(t, ok)
}

func TestBrand(t *testing.T) {
	b, ok := validate.Brand(" Bang & Olufsen ")
	assert.True(t, ok)
	assert.Equal(t, "Bang & Olufsen", b)
	_, ok = validate.Brand("<b>")
	assert.False(t, ok)
}
