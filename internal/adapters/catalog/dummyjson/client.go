package dummyjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/konamall/storefront/internal/domain"
)

// Client serves the catalog from the public DummyJSON demo API when the real
// backend is unreachable. Prices come back in USD and are converted to KRW at
// a fixed demo rate; cart and checkout still run against local state only.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

const (
	defaultBaseURL = "https://dummyjson.com"
	usdToKRW       = 1350
)

// storefront slug -> DummyJSON category
var categoryMap = map[string]string{
	"electronics": "smartphones",
	"fashion":     "tops",
	"home":        "home-decoration",
	"beauty":      "skincare",
	"sports":      "automotive",
}

// DummyJSON category -> localized label used for TitleKo
var categoryKoMap = map[string]string{
	"smartphones":      "스마트폰",
	"laptops":          "노트북",
	"fragrances":       "향수",
	"skincare":         "스킨케어",
	"groceries":        "식료품",
	"home-decoration":  "홈데코",
	"furniture":        "가구",
	"tops":             "상의",
	"womens-dresses":   "여성 드레스",
	"womens-shoes":     "여성 신발",
	"mens-shirts":      "남성 셔츠",
	"mens-shoes":       "남성 신발",
	"mens-watches":     "남성 시계",
	"womens-watches":   "여성 시계",
	"womens-bags":      "여성 가방",
	"womens-jewellery": "여성 주얼리",
	"sunglasses":       "선글라스",
	"automotive":       "자동차용품",
	"motorcycle":       "오토바이",
	"lighting":         "조명",
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type djProduct struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

type djList struct {
	Products []djProduct `json:"products"`
	Total    int         `json:"total"`
	Skip     int         `json:"skip"`
	Limit    int         `json:"limit"`
}

func (c *Client) List(ctx context.Context, f domain.ProductFilter) (domain.ProductList, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(f.PageSize))
	q.Set("skip", strconv.Itoa((f.Page-1)*f.PageSize))

	path := "/products"
	if f.Query != "" {
		path = "/products/search"
		q.Set("q", f.Query)
	} else if f.Category != "" && f.Category != "all" {
		cat := f.Category
		if mapped, ok := categoryMap[cat]; ok {
			cat = mapped
		}
		path = "/products/category/" + url.PathEscape(cat)
	}

	var out djList
	if err := c.get(ctx, path+"?"+q.Encode(), &out); err != nil {
		return domain.ProductList{}, err
	}
	list := domain.ProductList{Total: out.Total, Page: f.Page, PageSize: f.PageSize}
	for _, p := range out.Products {
		list.Items = append(list.Items, transform(p))
	}
	return list, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var p djProduct
	if err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10), &p); err != nil {
		return nil, err
	}
	d := transform(p)
	return &d, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var names []string
	// newer DummyJSON returns objects, older plain strings; accept both
	var raw json.RawMessage
	if err := c.get(ctx, "/products/category-list", &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &names); err == nil {
		return names, nil
	}
	var objs []struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, err
	}
	for _, o := range objs {
		names = append(names, o.Slug)
	}
	return names, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		if res.StatusCode == http.StatusNotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("dummyjson %s: status %d: %s", path, res.StatusCode, string(b))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// transform converts a demo product into the storefront shape. The original
// price is reconstructed from the discount percentage, then both ends are
// settled into KRW.
func transform(p djProduct) domain.Product {
	finalKRW := int64(math.Round(p.Price * usdToKRW))
	originalKRW := finalKRW
	if p.DiscountPercentage > 0 && p.DiscountPercentage < 100 {
		originalUSD := p.Price / (1 - p.DiscountPercentage/100)
		originalKRW = int64(math.Round(originalUSD * usdToKRW))
	}
	titleKo := p.Title
	if ko, ok := categoryKoMap[p.Category]; ok && p.Brand != "" {
		titleKo = p.Brand + " " + ko
	}
	d := domain.Product{
		ID:              p.ID,
		ExternalID:      "dummyjson-" + strconv.FormatInt(p.ID, 10),
		Title:           p.Title,
		TitleKo:         titleKo,
		Description:     p.Description,
		PriceOriginal:   originalKRW,
		PriceFinal:      finalKRW,
		Currency:        "KRW",
		Stock:           p.Stock,
		Category:        p.Category,
		MainImageURL:    p.Thumbnail,
		ShippingDaysMin: 5,
		ShippingDaysMax: 14,
	}
	for i, img := range p.Images {
		d.Images = append(d.Images, domain.ProductImage{ID: int64(i + 1), URL: img, IsMain: i == 0, SortOrder: i})
	}
	return d
}
