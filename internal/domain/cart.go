package domain

import "context"

// CartLine is one entry of the local cart. LocalID is assigned client-side so
// the same product with different variant selections stays on distinct lines,
// and so lines survive re-identification across reloads.
type CartLine struct {
	LocalID     string `gorm:"primaryKey;size:36" json:"id"`
	ProductID   int64  `gorm:"index" json:"productId"`
	VariantID   *int64 `gorm:"index" json:"variantId,omitempty"`
	Name        string `gorm:"size:255" json:"name"`
	NameKo      string `gorm:"size:255" json:"nameKo,omitempty"`
	Price       float64 `gorm:"type:decimal(12,2)" json:"price"`
	PriceKRW    int64   `gorm:"not null" json:"priceKrw"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	ImageURL    string  `gorm:"size:512" json:"imageUrl,omitempty"`
	VariantName string  `gorm:"size:140" json:"variant,omitempty"`
	Position    int     `gorm:"index" json:"-"`
}

// SameProduct reports whether two lines refer to the same product+variant
// selection. A nil VariantID only matches another nil.
func (l CartLine) SameProduct(productID int64, variantID *int64) bool {
	if l.ProductID != productID {
		return false
	}
	if l.VariantID == nil || variantID == nil {
		return l.VariantID == nil && variantID == nil
	}
	return *l.VariantID == *variantID
}

func (l CartLine) Subtotal() int64 { return l.PriceKRW * int64(l.Quantity) }

// CartRepo persists the cart line sequence locally. Only lines are stored;
// auth and loading flags are transient.
type CartRepo interface {
	Load(ctx context.Context) ([]CartLine, error)
	Replace(ctx context.Context, lines []CartLine) error
}
