package validate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// PhoneMask is the format the phone input produces once fully filled.
const PhoneMask = "+38 (0XX) XXX-XX-XX"

var rePhone = regexp.MustCompile(`^\+38 \(0\d{2}\) \d{3}-\d{2}-\d{2}$`)

// Checkout is the contact form submitted with an order.
type Checkout struct {
	Name  string `validate:"nonblank,max=100"`
	Phone string `validate:"uaphone"`
}

var (
	once sync.Once
	v    *validator.Validate
)

func checkoutValidator() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("uaphone", func(fl validator.FieldLevel) bool {
			return Phone(fl.Field().String())
		})
	})
	return v
}

// Phone reports whether s is a completely filled phone mask. A partially
// filled mask is shorter and never matches.
func Phone(s string) bool {
	return len(s) == len(PhoneMask) && rePhone.MatchString(s)
}

// Valid reports whether the form may be submitted.
func (c Checkout) Valid() bool {
	return c.Validate() == nil
}

// Validate returns validator.ValidationErrors naming the failing fields.
func (c Checkout) Validate() error {
	return checkoutValidator().Struct(c)
}

// Fields lists the names of invalid fields, nil when the form is valid.
func (c Checkout) Fields() []string {
	err := c.Validate()
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"form"}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, strings.ToLower(fe.Field()))
	}
	return out
}
