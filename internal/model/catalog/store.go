package catalog

// Store exposes read-only catalog lookups for the resolver, dispatcher and
// HTTP handlers. The backing slices are never mutated after construction.
type Store struct {
	products []Product
	faqs     []FaqItem
}

// NewStore returns a Store preloaded with the supplied products and FAQs.
func NewStore(products []Product, faqs []FaqItem) *Store {
	return &Store{
		products: append([]Product(nil), products...),
		faqs:     append([]FaqItem(nil), faqs...),
	}
}

// Products returns the ordered product list.
func (s *Store) Products() []Product {
	return append([]Product(nil), s.products...)
}

// Faqs returns the ordered FAQ list.
func (s *Store) Faqs() []FaqItem {
	return append([]FaqItem(nil), s.faqs...)
}

// FindProduct looks up a product by identifier.
func (s *Store) FindProduct(id string) (Product, bool) {
	for _, item := range s.products {
		if item.ID == id {
			return item, true
		}
	}
	return Product{}, false
}

// HasProduct reports whether the identifier exists in the catalog.
func (s *Store) HasProduct(id string) bool {
	_, ok := s.FindProduct(id)
	return ok
}
