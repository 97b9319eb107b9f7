package entity

// Products sold by the checkout flow.
const (
	ProductDIY    = "diy"    // self-service filing kit
	ProductReview = "review" // attorney review package
)

func KnownProduct(id string) bool {
	return id == ProductDIY || id == ProductReview
}
