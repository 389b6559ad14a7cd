package backendapi

import (
	"time"

	"github.com/konamall/storefront/internal/domain"
)

// Wire types for the backend REST contract. Field names follow the backend's
// snake_case schemas; mapping to domain types happens in this package only.

type apiError struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

type cartItemOut struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	VariantID    *int64 `json:"variant_id"`
	Quantity     int    `json:"quantity"`
	ProductTitle string `json:"product_title"`
	ProductImage string `json:"product_image"`
	PriceKRW     int64  `json:"price_krw"`
	LineTotal    int64  `json:"line_total"`
}

type cartOut struct {
	ID          int64         `json:"id"`
	Items       []cartItemOut `json:"items"`
	Subtotal    int64         `json:"subtotal"`
	ShippingFee int64         `json:"shipping_fee"`
	Total       int64         `json:"total"`
}

type cartItemIn struct {
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

type productOut struct {
	ID              int64        `json:"id"`
	ExternalID      string       `json:"external_id"`
	Title           string       `json:"title"`
	TitleKo         string       `json:"title_ko"`
	Description     string       `json:"description"`
	DescriptionKo   string       `json:"description_ko"`
	PriceOriginal   int64        `json:"price_original"`
	PriceFinal      int64        `json:"price_final"`
	Currency        string       `json:"currency"`
	Stock           int          `json:"stock"`
	IsActive        bool         `json:"is_active"`
	Category        string       `json:"category"`
	Tags            []string     `json:"tags"`
	OriginURL       string       `json:"origin_url"`
	MainImageURL    string       `json:"main_image_url"`
	ShippingDaysMin int          `json:"shipping_days_min"`
	ShippingDaysMax int          `json:"shipping_days_max"`
	Variants        []variantOut `json:"variants"`
	Images          []imageOut   `json:"images"`
}

type variantOut struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	PriceUSD  float64 `json:"price_usd"`
	PriceKRW  int64   `json:"price_krw"`
	Stock     int     `json:"stock"`
}

type imageOut struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	IsMain    bool   `json:"is_main"`
	SortOrder int    `json:"sort_order"`
}

type productListOut struct {
	Items []productOut `json:"items"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

type tokenOut struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        *userOut `json:"user"`
}

type userOut struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type addressOut struct {
	ID            int64  `json:"id"`
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	ZipCode       string `json:"zip_code"`
	Address1      string `json:"address1"`
	Address2      string `json:"address2"`
	IsDefault     bool   `json:"is_default"`
}

type orderItemOut struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	ProductTitle string `json:"product_title"`
	VariantName  string `json:"variant_name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
}

type orderOut struct {
	ID               int64          `json:"id"`
	OrderNumber      string         `json:"order_number"`
	Status           string         `json:"status"`
	PaymentStatus    string         `json:"payment_status"`
	SubtotalKRW      int64          `json:"subtotal_krw"`
	ShippingCostKRW  int64          `json:"shipping_cost_krw"`
	TotalAmount      int64          `json:"total_amount"`
	ShippingName     string         `json:"shipping_name"`
	ShippingPhone    string         `json:"shipping_phone"`
	ShippingAddress1 string         `json:"shipping_address1"`
	ShippingAddress2 string         `json:"shipping_address2"`
	Items            []orderItemOut `json:"items"`
	CreatedAt        time.Time      `json:"created_at"`
}

type adminStatsOut struct {
	TotalUsers    int   `json:"total_users"`
	TotalOrders   int   `json:"total_orders"`
	TotalProducts int   `json:"total_products"`
	RevenueKRW    int64 `json:"revenue_krw"`
	PendingOrders int   `json:"pending_orders"`
}

func (p productOut) toDomain() domain.Product {
	d := domain.Product{
		ID:              p.ID,
		ExternalID:      p.ExternalID,
		Title:           p.Title,
		TitleKo:         p.TitleKo,
		Description:     p.Description,
		DescriptionKo:   p.DescriptionKo,
		PriceOriginal:   p.PriceOriginal,
		PriceFinal:      p.PriceFinal,
		Currency:        p.Currency,
		Stock:           p.Stock,
		Category:        p.Category,
		Tags:            p.Tags,
		OriginURL:       p.OriginURL,
		MainImageURL:    p.MainImageURL,
		ShippingDaysMin: p.ShippingDaysMin,
		ShippingDaysMax: p.ShippingDaysMax,
	}
	for _, v := range p.Variants {
		d.Variants = append(d.Variants, domain.Variant(v))
	}
	for _, im := range p.Images {
		d.Images = append(d.Images, domain.ProductImage(im))
	}
	return d
}

func (u userOut) toDomain() domain.User {
	return domain.User{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role, IsActive: u.IsActive}
}

func (a addressOut) toDomain() domain.Address {
	return domain.Address{ID: a.ID, RecipientName: a.RecipientName, Phone: a.Phone, ZipCode: a.ZipCode, Address1: a.Address1, Address2: a.Address2, IsDefault: a.IsDefault}
}

func (o orderOut) toDomain() domain.Order {
	d := domain.Order{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Status:           domain.OrderStatus(o.Status),
		PaymentStatus:    o.PaymentStatus,
		SubtotalKRW:      o.SubtotalKRW,
		ShippingCostKRW:  o.ShippingCostKRW,
		TotalAmount:      o.TotalAmount,
		ShippingName:     o.ShippingName,
		ShippingPhone:    o.ShippingPhone,
		ShippingAddress1: o.ShippingAddress1,
		ShippingAddress2: o.ShippingAddress2,
		CreatedAt:        o.CreatedAt,
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, domain.OrderItem{ID: it.ID, ProductID: it.ProductID, ProductTitle: it.ProductTitle, VariantName: it.VariantName, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return d
}
