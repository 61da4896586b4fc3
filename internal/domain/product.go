package domain

type Product struct {
	ID          string
	Name        string
	Description string
	Price       int64
}

var catalog = []Product{
	{
		ID:          "A01",
		Name:        "Тёмный шоколад 70%",
		Description: "Горький шоколад ручной работы из какао-бобов Эквадора.",
		Price:       1500,
	},
	{
		ID:          "A02",
		Name:        "Молочный шоколад с фундуком",
		Description: "Нежный молочный шоколад с обжаренным фундуком.",
		Price:       1300,
	},
	{
		ID:          "A03",
		Name:        "Белый шоколад с малиной",
		Description: "Белый шоколад с сублимированной малиной.",
		Price:       1400,
	},
}

// Catalog returns a copy of the fixed product list.
func Catalog() []Product {
	products := make([]Product, len(catalog))
	copy(products, catalog)
	return products
}

func FindProduct(id string) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
