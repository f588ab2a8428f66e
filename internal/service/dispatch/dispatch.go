package dispatch

import (
	"fmt"
	"log"
	"strings"

	"github.com/veronavoice/concierge/backend/internal/model/catalog"
	"github.com/veronavoice/concierge/backend/internal/model/intent"
)

// DefaultMessage replaces an empty upstream message so the spoken reply is
// never blank.
const DefaultMessage = "Sorry, I didn't quite understand that."

// Route paths consumed from the host's navigation capability.
const (
	productPathPrefix = "/products/"
	checkoutPath      = "/cart"
)

// CartOps is the mutation surface the host exposes over its cart. Add
// increments an existing line item or inserts a new one.
type CartOps interface {
	Add(productID string, quantity int) error
	HasItem(productID string) bool
}

// NavigateFunc routes the host UI to the given path.
type NavigateFunc func(path string)

// Dispatcher turns a resolved intent into its side effect and the final
// spoken confirmation. It holds no mutable state of its own.
type Dispatcher struct {
	catalog  *catalog.Store
	cart     CartOps
	navigate NavigateFunc
}

// New creates a dispatcher bound to the host's catalog, cart and router.
func New(store *catalog.Store, cart CartOps, navigate NavigateFunc) *Dispatcher {
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Dispatcher{catalog: store, cart: cart, navigate: navigate}
}

// Dispatch executes the side effect for resp and returns the message to
// speak. The returned string is never empty.
func (d *Dispatcher) Dispatch(resp intent.Response) string {
	message := resp.Message

	switch resp.Intent {
	case intent.AddToCart:
		message = d.addToCart(resp)
	case intent.NavigateToProduct:
		message = d.navigateToProduct(resp)
	case intent.GetProductRecommendation:
		message = d.recommend(resp)
	case intent.NavigateToCheckout:
		d.navigate(checkoutPath)
	case intent.AnswerFaq, intent.GeneralQuery, intent.Error:
		// Message passes through untouched, no side effect.
	}

	if strings.TrimSpace(message) == "" {
		return DefaultMessage
	}
	return message
}

func (d *Dispatcher) addToCart(resp intent.Response) string {
	product, ok := d.resolveProduct(resp.ProductID, resp.ProductName)
	if !ok {
		if resp.ProductName != "" {
			return fmt.Sprintf("Sorry, I couldn't find a product named %q to add to your cart.", resp.ProductName)
		}
		if resp.ProductID != "" {
			return fmt.Sprintf("Sorry, I could not find the product with ID %s.", resp.ProductID)
		}
		return "I couldn't figure out which product to add. Can you be more specific?"
	}

	if err := d.cart.Add(product.ID, 1); err != nil {
		log.Printf("[dispatch] add to cart failed product=%s: %v", product.ID, err)
		return fmt.Sprintf("Sorry, I could not add %s to your cart.", product.Name)
	}
	return fmt.Sprintf("%s has been added to your cart.", product.Name)
}

func (d *Dispatcher) navigateToProduct(resp intent.Response) string {
	product, ok := d.resolveProduct(resp.ProductID, resp.ProductName)
	if !ok {
		if resp.ProductName != "" {
			return fmt.Sprintf("Sorry, I couldn't find a product named %q.", resp.ProductName)
		}
		return "I'm not sure which product you want to see. Can you tell me the name or ID?"
	}

	d.navigate(productPathPrefix + product.ID)
	return fmt.Sprintf("Taking you to %s.", product.Name)
}

// recommend navigates only when a suggested id actually exists in the
// catalog. Keyword-only suggestions never navigate.
func (d *Dispatcher) recommend(resp intent.Response) string {
	for _, id := range resp.SuggestedProductIDs {
		product, ok := d.catalog.FindProduct(id)
		if !ok {
			continue
		}
		d.navigate(productPathPrefix + product.ID)
		return fmt.Sprintf("Based on your request for %q, I think you might like %s. I'm taking you to its page now!", resp.Query, product.Name)
	}
	return resp.Message
}

// resolveProduct prefers an explicit id present in the catalog, then a
// case-insensitive substring match on the name, taking the first hit.
func (d *Dispatcher) resolveProduct(id, name string) (catalog.Product, bool) {
	if id != "" {
		if product, ok := d.catalog.FindProduct(id); ok {
			return product, true
		}
	}
	if name != "" {
		needle := strings.ToLower(name)
		for _, product := range d.catalog.Products() {
			if strings.Contains(strings.ToLower(product.Name), needle) {
				return product, true
			}
		}
	}
	return catalog.Product{}, false
}
