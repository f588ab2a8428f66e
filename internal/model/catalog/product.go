package catalog

// Product captures a storefront item exposed to the frontend. The catalog
// is owned by the host application and read-only to the concierge core.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Category    string  `json:"category"`
}

// FaqItem is a single question/answer pair from the store FAQ page.
type FaqItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Seed provides the sample storefront data used by the MVP.
func Seed() ([]Product, []FaqItem) {
	products := []Product{
		{
			ID:          "2319076",
			Name:        "Charlene Dress Stone",
			Description: "Elegant stone-colored dress from Tuxer, perfect for any occasion.",
			Price:       899,
			ImageURL:    "https://picsum.photos/seed/2319076/400/300",
			Category:    "Apparel",
		},
		{
			ID:          "2319075",
			Name:        "Charlene Dress Olivine",
			Description: "Stylish olivine green dress from Tuxer with modern design.",
			Price:       899,
			ImageURL:    "https://picsum.photos/seed/2319075/400/300",
			Category:    "Apparel",
		},
		{
			ID:          "2310841",
			Name:        "Högalid Dress Grey Melange",
			Description: "Premium grey melange dress from Sätila of Sweden with sophisticated styling.",
			Price:       1995,
			ImageURL:    "https://images.footway.com/02/61209-21_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2301424",
			Name:        "Högalid Dress Beige",
			Description: "Elegant beige dress from Sätila of Sweden with timeless appeal.",
			Price:       1995,
			ImageURL:    "https://images.footway.com/02/61202-34_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2193051",
			Name:        "Club Dress Black",
			Description: "Athletic black dress from adidas Tennis, perfect for active wear.",
			Price:       669,
			ImageURL:    "https://images.footway.com/02/61114-34_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2182757",
			Name:        "Dress Pink Lady",
			Description: "Vibrant pink dress from Champion, ideal for children's wear.",
			Price:       350,
			ImageURL:    "https://images.footway.com/02/61106-03_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2182439",
			Name:        "Carmen Dress Dark Navy",
			Description: "Sophisticated dark navy dress from Tuxer with elegant design.",
			Price:       499,
			ImageURL:    "https://images.footway.com/02/61105-79_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2182438",
			Name:        "Carmen Dress Navy Stripes",
			Description: "Stylish navy striped dress from Tuxer with classic nautical appeal.",
			Price:       499,
			ImageURL:    "https://images.footway.com/02/61105-78_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2177298",
			Name:        "Essentials 3-Stripes Single Jersey Boyfriend Tee Dress Pink",
			Description: "Comfortable pink boyfriend tee dress from adidas with iconic 3-stripes design.",
			Price:       469,
			ImageURL:    "https://images.footway.com/02/61103-46_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2151753",
			Name:        "W Pique Dress White",
			Description: "Premium white pique dress from Peak Performance with athletic styling.",
			Price:       1199,
			ImageURL:    "https://images.footway.com/02/61081-66_001.png",
			Category:    "Apparel",
		},
		{
			ID:          "2107501",
			Name:        "Hmlfreja Gymsuit Rose Brown",
			Description: "Comfortable rose brown gymsuit from Hummel, perfect for active children.",
			Price:       500,
			ImageURL:    "https://picsum.photos/seed/2107501/400/300",
			Category:    "Apparel",
		},
		{
			ID:          "2107500",
			Name:        "Hmlfreja Gymsuit Asphalt",
			Description: "Durable asphalt-colored gymsuit from Hummel for active kids.",
			Price:       500,
			ImageURL:    "https://picsum.photos/seed/2107500/400/300",
			Category:    "Apparel",
		},
	}

	faqs := []FaqItem{
		{ID: "faq1", Question: "What is your return policy?", Answer: "We offer a 30-day free return policy on all eligible items. Items must be in new and unused condition with original packaging."},
		{ID: "faq2", Question: "How long does shipping take?", Answer: "Standard shipping typically takes 3-5 business days. Expedited options are available at checkout."},
		{ID: "faq3", Question: "Do you ship internationally?", Answer: "Currently, we only ship within the United States. We are working on expanding our shipping options in the future."},
		{ID: "faq4", Question: "How can I track my order?", Answer: "Once your order ships, you will receive an email with a tracking number and a link to track your package."},
	}

	return products, faqs
}
