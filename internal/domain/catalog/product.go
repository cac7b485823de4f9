// Package catalog contains the pro-shop product catalog. The catalog is
// read-only in this release: it is seeded at startup and browsed, but not
// edited or synced.
package catalog

// Product is one item in the academy's pro shop.
type Product struct {
	// ID is the unique identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Price is the unit price in centavos.
	Price int64 `json:"price"`

	// Category groups products ("Uniforme", "Acessório").
	Category string `json:"category"`

	// Stock is the on-hand quantity.
	Stock int `json:"stock"`

	// ImageURL points at the product photo.
	ImageURL string `json:"imageUrl"`
}

// SeedProducts returns the catalog the shop starts with.
func SeedProducts() []*Product {
	return []*Product{
		{ID: "prod-1", Name: "Kimono Tree BJJ Pro", Price: 45000, Category: "Uniforme", Stock: 15, ImageURL: "https://picsum.photos/seed/kimono/200"},
		{ID: "prod-2", Name: "Rashguard Elite", Price: 18000, Category: "Uniforme", Stock: 22, ImageURL: "https://picsum.photos/seed/rash/200"},
		{ID: "prod-3", Name: "Faixa Premium", Price: 8000, Category: "Acessório", Stock: 50, ImageURL: "https://picsum.photos/seed/belt/200"},
	}
}
