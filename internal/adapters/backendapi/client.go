package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/konamall/storefront/internal/domain"
)

// Client talks to the backend REST API. It attaches the bearer token the
// token func yields at call time, so a sign-in mid-session is picked up
// without rebuilding the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

func NewClient(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      token,
	}
}

// do issues one JSON request. A non-2xx status becomes an error carrying the
// backend's detail message when the body has one.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		raw, _ := io.ReadAll(res.Body)
		var ae apiError
		if err := json.Unmarshal(raw, &ae); err == nil && ae.Detail != "" {
			if res.StatusCode == http.StatusUnauthorized {
				return fmt.Errorf("%w: %s", domain.ErrUnauthorized, ae.Detail)
			}
			if res.StatusCode == http.StatusNotFound {
				return fmt.Errorf("%w: %s", domain.ErrNotFound, ae.Detail)
			}
			return fmt.Errorf("backend %s %s: status %d: %s", method, path, res.StatusCode, ae.Detail)
		}
		if res.StatusCode == http.StatusUnauthorized {
			return domain.ErrUnauthorized
		}
		if res.StatusCode == http.StatusNotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("backend %s %s: status %d: %s", method, path, res.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// Health probes the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// --- Cart ---

// FetchCart returns the server-side cart lines. A malformed body or an error
// status is reported as an empty cart; only transport failures are errors.
func (c *Client) FetchCart(ctx context.Context) ([]domain.CartLine, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cart", nil)
	if err != nil {
		return nil, err
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, nil
	}
	var out cartOut
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, nil
	}
	lines := make([]domain.CartLine, 0, len(out.Items))
	for _, it := range out.Items {
		lines = append(lines, domain.CartLine{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.ProductTitle,
			PriceKRW:  it.PriceKRW,
			Quantity:  it.Quantity,
			ImageURL:  it.ProductImage,
		})
	}
	return lines, nil
}

func (c *Client) AddItem(ctx context.Context, productID int64, variantID *int64, quantity int) error {
	return c.do(ctx, http.MethodPost, "/api/cart/items", nil, cartItemIn{ProductID: productID, VariantID: variantID, Quantity: quantity}, nil)
}

func (c *Client) UpdateItem(ctx context.Context, productID int64, variantID *int64, quantity int) error {
	return c.do(ctx, http.MethodPut, "/api/cart/items", nil, cartItemIn{ProductID: productID, VariantID: variantID, Quantity: quantity}, nil)
}

func (c *Client) RemoveItem(ctx context.Context, productID int64, variantID *int64) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/items", nil, cartItemIn{ProductID: productID, VariantID: variantID}, nil)
}

func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart", nil, nil, nil)
}

// --- Products ---

func (c *Client) ListProducts(ctx context.Context, f domain.ProductFilter) (domain.ProductList, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa((f.Page-1)*f.PageSize))
	q.Set("limit", strconv.Itoa(f.PageSize))
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Query != "" {
		q.Set("search", f.Query)
	}
	if f.MinPrice > 0 {
		q.Set("min_price", strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatInt(f.MaxPrice, 10))
	}
	var out productListOut
	if err := c.do(ctx, http.MethodGet, "/api/products/", q, nil, &out); err != nil {
		return domain.ProductList{}, err
	}
	list := domain.ProductList{Total: out.Total, Page: f.Page, PageSize: f.PageSize}
	for _, p := range out.Items {
		list.Items = append(list.Items, p.toDomain())
	}
	return list, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var out productOut
	if err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/products/categories/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Users ---

func (c *Client) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	var out userOut
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/register", nil, body, &out); err != nil {
		return domain.User{}, err
	}
	return out.toDomain(), nil
}

// Login exchanges credentials for a bearer token. The response may embed the
// user; when it does not, callers fetch it with Me.
func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var out tokenOut
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", nil, body, &out); err != nil {
		return "", nil, err
	}
	if out.AccessToken == "" {
		return "", nil, errors.New("backend login: empty access token")
	}
	var u *domain.User
	if out.User != nil {
		du := out.User.toDomain()
		u = &du
	}
	return out.AccessToken, u, nil
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out userOut
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &out); err != nil {
		return domain.User{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) UpdateMe(ctx context.Context, name, phone string) error {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if phone != "" {
		body["phone"] = phone
	}
	return c.do(ctx, http.MethodPatch, "/api/users/me", nil, body, nil)
}

// --- Addresses ---

func (c *Client) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	var out []addressOut
	if err := c.do(ctx, http.MethodGet, "/api/users/addresses", nil, nil, &out); err != nil {
		return nil, err
	}
	addrs := make([]domain.Address, 0, len(out))
	for _, a := range out {
		addrs = append(addrs, a.toDomain())
	}
	return addrs, nil
}

func (c *Client) CreateAddress(ctx context.Context, a domain.Address) (domain.Address, error) {
	body := map[string]any{
		"recipient_name": a.RecipientName,
		"phone":          a.Phone,
		"zip_code":       a.ZipCode,
		"address1":       a.Address1,
		"address2":       a.Address2,
		"is_default":     a.IsDefault,
	}
	var out addressOut
	if err := c.do(ctx, http.MethodPost, "/api/users/addresses", nil, body, &out); err != nil {
		return domain.Address{}, err
	}
	return out.toDomain(), nil
}

// --- Orders ---

func (c *Client) CreateOrder(ctx context.Context, addressID int64, paymentMethod, note string) (domain.Order, error) {
	if paymentMethod == "" {
		paymentMethod = "kakao_pay"
	}
	body := map[string]any{"address_id": addressID, "payment_method": paymentMethod}
	if note != "" {
		body["note"] = note
	}
	var out orderOut
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, body, &out); err != nil {
		return domain.Order{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) ListOrders(ctx context.Context, page, limit int) ([]domain.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out []orderOut
	if err := c.do(ctx, http.MethodGet, "/api/orders", q, nil, &out); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(out))
	for _, o := range out {
		orders = append(orders, o.toDomain())
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var out orderOut
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	o := out.toDomain()
	return &o, nil
}

func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/orders/"+strconv.FormatInt(id, 10)+"/cancel", nil, nil, nil)
}

// --- Payments ---

func (c *Client) PreparePayment(ctx context.Context, orderID int64, gateway string) (map[string]any, error) {
	if gateway == "" {
		gateway = "kakao_pay"
	}
	var out map[string]any
	body := map[string]any{"order_id": orderID, "gateway": gateway}
	if err := c.do(ctx, http.MethodPost, "/api/payments/prepare", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApprovePayment(ctx context.Context, orderID int64, paymentID, pgToken, gateway string) (map[string]any, error) {
	if gateway == "" {
		gateway = "kakao_pay"
	}
	var out map[string]any
	body := map[string]any{"order_id": orderID, "payment_id": paymentID, "pg_token": pgToken, "gateway": gateway}
	if err := c.do(ctx, http.MethodPost, "/api/payments/approve", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Admin ---

func (c *Client) AdminListUsers(ctx context.Context) ([]domain.User, error) {
	var out []userOut
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, nil, &out); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(out))
	for _, u := range out {
		users = append(users, u.toDomain())
	}
	return users, nil
}

func (c *Client) AdminListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []orderOut
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(out))
	for _, o := range out {
		orders = append(orders, o.toDomain())
	}
	return orders, nil
}

func (c *Client) AdminListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []productOut
	if err := c.do(ctx, http.MethodGet, "/api/admin/products", nil, nil, &out); err != nil {
		return nil, err
	}
	prods := make([]domain.Product, 0, len(out))
	for _, p := range out {
		prods = append(prods, p.toDomain())
	}
	return prods, nil
}

func (c *Client) AdminStats(ctx context.Context) (map[string]any, error) {
	var out adminStatsOut
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return map[string]any{
		"TotalUsers":    out.TotalUsers,
		"TotalOrders":   out.TotalOrders,
		"TotalProducts": out.TotalProducts,
		"RevenueKRW":    out.RevenueKRW,
		"PendingOrders": out.PendingOrders,
	}, nil
}
