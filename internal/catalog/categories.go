package catalog

type Category struct {
	ID   string
	Name string
	Icon string
}

var categories = []Category{
	{ID: CategoryAll, Name: "All products", Icon: "fa-layer-group"},
	{ID: "smartphones", Name: "Smartphones", Icon: "fa-mobile-alt"},
	{ID: "laptops", Name: "Laptops", Icon: "fa-laptop"},
	{ID: "gaming", Name: "Gaming", Icon: "fa-gamepad"},
	{ID: "tv", Name: "TVs", Icon: "fa-tv"},
	{ID: "audio", Name: "Audio", Icon: "fa-headphones"},
}

// headerCategories get a product preview in the top navigation.
var headerCategories = []string{"smartphones", "laptops", "gaming"}

// Categories returns the fixed category table in menu order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func HeaderCategories() []Category {
	out := make([]Category, 0, len(headerCategories))
	for _, id := range headerCategories {
		if c, ok := LookupCategory(id); ok {
			out = append(out, c)
		}
	}
	return out
}

func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
