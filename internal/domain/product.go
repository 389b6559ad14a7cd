package domain

type Product struct {
	ID              int64
	ExternalID      string
	Title           string
	TitleKo         string
	Description     string
	DescriptionKo   string
	PriceOriginal   int64
	PriceFinal      int64
	Currency        string
	Stock           int
	Category        string
	Tags            []string
	OriginURL       string
	MainImageURL    string
	ShippingDaysMin int
	ShippingDaysMax int
	Variants        []Variant
	Images          []ProductImage
}

// DisplayTitle prefers the localized title when the catalog has one.
func (p Product) DisplayTitle() string {
	if p.TitleKo != "" {
		return p.TitleKo
	}
	return p.Title
}

// DiscountPct is the rounded percentage off the original price.
func (p Product) DiscountPct() int {
	if p.PriceOriginal <= 0 || p.PriceFinal >= p.PriceOriginal {
		return 0
	}
	return int(float64(p.PriceOriginal-p.PriceFinal)/float64(p.PriceOriginal)*100 + 0.5)
}

type Variant struct {
	ID        int64
	ProductID int64
	SKU       string
	Name      string
	PriceUSD  float64
	PriceKRW  int64
	Stock     int
}

type ProductImage struct {
	ID        int64
	URL       string
	IsMain    bool
	SortOrder int
}

type ProductFilter struct {
	Page     int
	PageSize int
	Category string
	Query    string
	MinPrice int64
	MaxPrice int64
}

type ProductList struct {
	Items    []Product
	Total    int
	Page     int
	PageSize int
}

type Category struct {
	ID     int
	Name   string
	NameKo string
	Slug   string
	Icon   string
}

// Categories is the static storefront taxonomy. Served without a network call
// so category navigation works with or without the backend.
var Categories = []Category{
	{ID: 1, Name: "Fashion", NameKo: "패션", Slug: "fashion", Icon: "👕"},
	{ID: 2, Name: "Electronics", NameKo: "전자기기", Slug: "electronics", Icon: "📱"},
	{ID: 3, Name: "Home & Living", NameKo: "홈 & 리빙", Slug: "home", Icon: "🏠"},
	{ID: 4, Name: "Beauty", NameKo: "뷰티", Slug: "beauty", Icon: "💄"},
	{ID: 5, Name: "Sports", NameKo: "스포츠", Slug: "sports", Icon: "⚽"},
	{ID: 6, Name: "Games & Hobby", NameKo: "게임 & 취미", Slug: "games", Icon: "🎮"},
	{ID: 7, Name: "Kids", NameKo: "아동", Slug: "kids", Icon: "👶"},
	{ID: 8, Name: "Pets", NameKo: "반려동물", Slug: "pets", Icon: "🐕"},
	{ID: 9, Name: "Automotive", NameKo: "자동차용품", Slug: "automotive", Icon: "🚗"},
	{ID: 10, Name: "Groceries", NameKo: "식품", Slug: "groceries", Icon: "🍎"},
}

func CategoryBySlug(slug string) Category {
	for _, c := range Categories {
		if c.Slug == slug {
			return c
		}
	}
	return Category{Name: slug, NameKo: slug, Slug: slug, Icon: "🏷️"}
}
