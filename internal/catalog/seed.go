package catalog

var defaultProducts = []Product{
	{ID: 1, Name: "Nasi Goreng", Price: 15000},
	{ID: 2, Name: "Mie Ayam", Price: 12000},
	{ID: 3, Name: "Es Teh", Price: 3000},
	{ID: 4, Name: "Sate Ayam", Price: 20000},
}

// Default returns the built-in menu.
func Default() *Catalog {
	c, err := New(defaultProducts)
	if err != nil {
		panic(err)
	}
	return c
}
