package main

import (
	"context"

	"github.com/sirupsen/logrus"
)

func floatPtr(f float64) *float64 { return &f }

// seedDatabase populates empty category and product collections with the
// StyleHub starter data.
func seedDatabase(ctx context.Context, store *Store, log *logrus.Logger) error {
	if err := seedCategories(ctx, store.Categories, log); err != nil {
		return err
	}
	return seedProducts(ctx, store.Products, log)
}

func seedCategories(ctx context.Context, categories CategoryRepository, log *logrus.Logger) error {
	existing, err := categories.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	seed := []Category{
		newCategory("Damen", "damen", "user"),
		newCategory("Herren", "herren", "users"),
		newCategory("Accessoires", "accessoires", "shopping-bag"),
		newCategory("Schuhe", "schuhe", "footprints"),
	}
	if err := categories.InsertMany(ctx, seed); err != nil {
		return err
	}
	log.WithField("count", len(seed)).Info("categories seeded")
	return nil
}

func seedProducts(ctx context.Context, products ProductRepository, log *logrus.Logger) error {
	existing, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	seed := []ProductInput{
		{
			Name:          "Elegantes Sommerkleid",
			Price:         89.99,
			OriginalPrice: floatPtr(119.99),
			Image:         "https://images.unsplash.com/photo-1617019114583-affb34d1b3cd?q=85",
			Category:      "damen",
			IsOnSale:      true,
			Sizes:         []string{"XS", "S", "M", "L", "XL"},
			Colors:        []string{"Weiß", "Schwarz", "Navy"},
			Description:   "Leichtes Sommerkleid aus atmungsaktivem Stoff, perfekt für warme Tage.",
			Stock:         intPtr(25),
		},
		{
			Name:        "Herren Business Hemd",
			Price:       65.99,
			Image:       "https://images.unsplash.com/photo-1532453288672-3a27e9be9efd?q=85",
			Category:    "herren",
			Sizes:       []string{"S", "M", "L", "XL", "XXL"},
			Colors:      []string{"Weiß", "Blau", "Grau"},
			Description: "Klassisches Business-Hemd aus hochwertiger Baumwolle.",
			Stock:       intPtr(40),
		},
		{
			Name:        "Designer Handtasche",
			Price:       149.99,
			Image:       "https://images.unsplash.com/photo-1654707636800-a8f0acefaee9?q=85",
			Category:    "accessoires",
			Sizes:       []string{"Einheitsgröße"},
			Colors:      []string{"Grün", "Schwarz", "Braun"},
			Description: "Elegante Handtasche aus echtem Leder mit praktischen Fächern.",
			Stock:       intPtr(15),
		},
		{
			Name:          "Sport Sneaker",
			Price:         95.99,
			OriginalPrice: floatPtr(125.99),
			Image:         "https://images.unsplash.com/photo-1560769629-975ec94e6a86?q=85",
			Category:      "schuhe",
			IsOnSale:      true,
			Sizes:         []string{"36", "37", "38", "39", "40", "41", "42", "43", "44"},
			Colors:        []string{"Weiß", "Schwarz", "Grau"},
			Description:   "Bequeme Sneaker für Sport und Freizeit mit optimaler Dämpfung.",
			Stock:         intPtr(30),
		},
		{
			Name:        "Casual Jeans",
			Price:       79.99,
			Image:       "https://images.unsplash.com/photo-1445205170230-053b83016050?q=85",
			Category:    "damen",
			Sizes:       []string{"25", "26", "27", "28", "29", "30", "31", "32"},
			Colors:      []string{"Blue Denim", "Black Denim", "Light Wash"},
			Description: "Komfortable Jeans im klassischen Schnitt aus nachhaltiger Baumwolle.",
			Stock:       intPtr(35),
		},
		{
			Name:        "Luxus Sonnenbrille",
			Price:       189.99,
			Image:       "https://images.unsplash.com/photo-1492707892479-7bc8d5a4ee93?q=85",
			Category:    "accessoires",
			Sizes:       []string{"Einheitsgröße"},
			Colors:      []string{"Schwarz", "Braun", "Gold"},
			Description: "Hochwertige Sonnenbrille mit UV-Schutz und polarisierten Gläsern.",
			Stock:       intPtr(20),
		},
		{
			Name:          "Wintermantel Damen",
			Price:         199.99,
			OriginalPrice: floatPtr(249.99),
			Image:         "https://images.pexels.com/photos/33507998/pexels-photo-33507998.jpeg",
			Category:      "damen",
			IsOnSale:      true,
			Sizes:         []string{"XS", "S", "M", "L", "XL"},
			Colors:        []string{"Schwarz", "Grau", "Navy"},
			Description:   "Warmer Wintermantel mit Daunen-Füllung für kalte Tage.",
			Stock:         intPtr(18),
		},
		{
			Name:        "Herren Pullover",
			Price:       55.99,
			Image:       "https://images.pexels.com/photos/33507964/pexels-photo-33507964.jpeg",
			Category:    "herren",
			Sizes:       []string{"S", "M", "L", "XL", "XXL"},
			Colors:      []string{"Grau", "Navy", "Schwarz"},
			Description: "Kuscheliger Pullover aus weicher Wolle für gemütliche Stunden.",
			Stock:       intPtr(45),
		},
	}
	for _, in := range seed {
		if err := products.Insert(ctx, newProduct(in)); err != nil {
			return err
		}
	}
	log.WithField("count", len(seed)).Info("products seeded")
	return nil
}
