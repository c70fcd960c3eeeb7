package models

// Product is optional product context attached to an order notification.
type Product struct {
	Name     string `bson:"name" json:"name"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// WithDefaults returns a copy with a placeholder name when absent.
func (p Product) WithDefaults() Product {
	if p.Name == "" {
		p.Name = FieldPlaceholder
	}
	return p
}
