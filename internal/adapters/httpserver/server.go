package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2"

	"github.com/konamall/storefront/internal/cart"
	"github.com/konamall/storefront/internal/domain"
	"github.com/konamall/storefront/internal/usecase"
)

type Server struct {
	mux      *http.ServeMux
	tmpl     *template.Template
	products *usecase.ProductUC
	orders   *usecase.OrderUC
	auth     *usecase.AuthUC
	admin    *usecase.AdminUC
	cart     *cart.Store
	oauthCfg *oauth2.Config

	backendUp    func() bool
	adminAllowed map[string]struct{}
}

func New(t *template.Template, p *usecase.ProductUC, o *usecase.OrderUC, a *usecase.AuthUC, adm *usecase.AdminUC, c *cart.Store, oauthCfg *oauth2.Config, backendUp func() bool) http.Handler {
	s := &Server{tmpl: t, products: p, orders: o, auth: a, admin: adm, cart: c, oauthCfg: oauthCfg, backendUp: backendUp, mux: http.NewServeMux()}

	allowed := map[string]struct{}{}
	if raw := os.Getenv("ADMIN_ALLOWED_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				allowed[e] = struct{}{}
			}
		}
	}
	s.adminAllowed = allowed

	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
		Gzip,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/products", s.handleProducts)
	s.mux.HandleFunc("/products/category/", s.handleCategory)
	s.mux.HandleFunc("/product/", s.handleProduct)

	s.mux.HandleFunc("/cart", s.handleCart)
	s.mux.HandleFunc("/cart/update", s.handleCartUpdate)
	s.mux.HandleFunc("/cart/remove", s.handleCartRemove)
	s.mux.HandleFunc("/cart/clear", s.handleCartClear)

	s.mux.HandleFunc("/checkout", s.handleCheckout)
	s.mux.HandleFunc("/orders", s.handleOrders)
	s.mux.HandleFunc("/orders/", s.handleOrder)
	s.mux.HandleFunc("/payments/approve", s.handlePaymentApprove)

	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/signup", s.handleSignup)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/account", s.handleAccount)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)

	s.mux.HandleFunc("/help", s.handleHelp)
	s.mux.HandleFunc("/help/", s.handleHelp)

	s.mux.HandleFunc("/api/cart", s.apiCart)
	s.mux.HandleFunc("/api/cart/sync", s.apiCartSync)

	s.mux.HandleFunc("/admin", s.handleAdminDashboard)
	s.mux.HandleFunc("/admin/orders", s.handleAdminOrders)
	s.mux.HandleFunc("/admin/orders/export", s.handleAdminOrdersExport)
	s.mux.HandleFunc("/admin/products", s.handleAdminProducts)
	s.mux.HandleFunc("/admin/users", s.handleAdminUsers)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	list, err := s.products.List(r.Context(), domain.ProductFilter{Page: 1, PageSize: 8})
	if err != nil {
		log.Error().Err(err).Msg("home product list")
	}
	s.render(w, "home.html", map[string]any{
		"Products":   list.Items,
		"Categories": s.products.Categories(),
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	if page < 1 {
		page = 1
	}
	f := domain.ProductFilter{
		Page:     page,
		PageSize: 24,
		Query:    qv.Get("q"),
		Category: qv.Get("category"),
	}
	if v, err := strconv.ParseInt(qv.Get("min_price"), 10, 64); err == nil {
		f.MinPrice = v
	}
	if v, err := strconv.ParseInt(qv.Get("max_price"), 10, 64); err == nil {
		f.MaxPrice = v
	}
	list, err := s.products.List(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("product list")
	}
	pages := (list.Total + f.PageSize - 1) / f.PageSize
	if pages == 0 {
		pages = 1
	}
	s.render(w, "products.html", map[string]any{
		"Products":   list.Items,
		"Total":      list.Total,
		"Page":       page,
		"Pages":      pages,
		"Query":      f.Query,
		"Category":   f.Category,
		"Categories": s.products.Categories(),
	})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/products/category/")
	if slug == "" {
		http.Redirect(w, r, "/products", http.StatusFound)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	list, err := s.products.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 24, Category: slug})
	if err != nil {
		log.Error().Err(err).Str("category", slug).Msg("category list")
	}
	pages := (list.Total + 23) / 24
	if pages == 0 {
		pages = 1
	}
	s.render(w, "products.html", map[string]any{
		"Products":        list.Items,
		"Total":           list.Total,
		"Page":            page,
		"Pages":           pages,
		"Category":        slug,
		"CurrentCategory": domain.CategoryBySlug(slug),
		"Categories":      s.products.Categories(),
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/product/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, "product.html", map[string]any{
		"Product": p,
		"Added":   r.URL.Query().Get("added") == "1",
	})
}

// handleCart renders the cart on GET and adds a product on POST. The add is
// committed locally before any backend call happens; the shopper never waits
// on, or sees, the mirror outcome.
func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "cart.html", map[string]any{
			"Lines": s.cart.Lines(),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		productID, err := strconv.ParseInt(r.FormValue("product_id"), 10, 64)
		if err != nil || productID <= 0 {
			http.Error(w, "product_id", http.StatusBadRequest)
			return
		}
		qty, _ := strconv.Atoi(r.FormValue("quantity"))
		if qty < 1 {
			qty = 1
		}
		p, err := s.products.Get(r.Context(), productID)
		if err != nil {
			http.Error(w, "product", http.StatusNotFound)
			return
		}

		line := domain.CartLine{
			ProductID: p.ID,
			Name:      p.Title,
			NameKo:    p.TitleKo,
			Price:     float64(p.PriceOriginal),
			PriceKRW:  p.PriceFinal,
			Quantity:  qty,
			ImageURL:  p.MainImageURL,
		}
		if vidStr := r.FormValue("variant_id"); vidStr != "" {
			vid, err := strconv.ParseInt(vidStr, 10, 64)
			if err == nil {
				for _, v := range p.Variants {
					if v.ID != vid {
						continue
					}
					line.VariantID = &vid
					line.VariantName = v.Name
					if v.PriceKRW > 0 {
						line.PriceKRW = v.PriceKRW
					}
					break
				}
			}
		}
		s.cart.AddItem(line)

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "items": s.cart.TotalItemCount()})
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/product/%d?added=1", productID), http.StatusFound)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	localID := r.FormValue("line_id")
	op := r.FormValue("op")
	cur := 0
	for _, l := range s.cart.Lines() {
		if l.LocalID == localID {
			cur = l.Quantity
			break
		}
	}
	switch op {
	case "inc":
		s.cart.UpdateQuantity(localID, cur+1)
	case "dec":
		// a decrement below one is ignored; removal stays explicit
		s.cart.UpdateQuantity(localID, cur-1)
	case "set":
		if q, err := strconv.Atoi(r.FormValue("quantity")); err == nil {
			s.cart.UpdateQuantity(localID, q)
		}
	}
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	s.cart.RemoveItem(r.FormValue("line_id"))
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.cart.ClearCart()
	http.Redirect(w, r, "/cart", http.StatusFound)
}

// apiCart exposes the local cart as JSON for page scripts (badge refresh).
func (s *Server) apiCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":   s.cart.Lines(),
		"total":   s.cart.TotalAmount(),
		"count":   s.cart.TotalItemCount(),
		"loading": s.cart.Loading(),
	})
}

// apiCartSync forces a reconciliation against the backend cart.
func (s *Server) apiCartSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if !s.auth.IsAuthenticated() {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "sign in first"})
		return
	}
	if err := s.cart.SyncWithServer(r.Context()); err != nil {
		log.Warn().Err(err).Msg("manual cart sync")
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.cart.Lines(), "count": s.cart.TotalItemCount()})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if !s.auth.IsAuthenticated() {
		http.Redirect(w, r, "/login?next=/checkout", http.StatusFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		addrs, err := s.orders.Addresses(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("list addresses")
		}
		s.render(w, "checkout.html", map[string]any{
			"Lines":     s.cart.Lines(),
			"Addresses": addrs,
			"Err":       r.URL.Query().Get("err"),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		addressID, _ := strconv.ParseInt(r.FormValue("address_id"), 10, 64)
		if addressID == 0 && r.FormValue("recipient_name") != "" {
			created, err := s.orders.AddAddress(r.Context(), domain.Address{
				RecipientName: r.FormValue("recipient_name"),
				Phone:         r.FormValue("phone"),
				ZipCode:       r.FormValue("zip_code"),
				Address1:      r.FormValue("address1"),
				Address2:      r.FormValue("address2"),
				IsDefault:     r.FormValue("is_default") == "on",
			})
			if err != nil {
				http.Redirect(w, r, "/checkout?err=address", http.StatusFound)
				return
			}
			addressID = created.ID
		}
		o, err := s.orders.Checkout(r.Context(), addressID, r.FormValue("payment_method"), r.FormValue("note"))
		if err != nil {
			// the one cart path whose failure the shopper does see
			log.Error().Err(err).Msg("checkout")
			http.Redirect(w, r, "/checkout?err=order", http.StatusFound)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/orders/%d?placed=1", o.ID), http.StatusFound)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if !s.auth.IsAuthenticated() {
		http.Redirect(w, r, "/login?next=/orders", http.StatusFound)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	orders, err := s.orders.List(r.Context(), page, 20)
	if err != nil {
		log.Error().Err(err).Msg("order list")
	}
	s.render(w, "orders.html", map[string]any{"Orders": orders})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if !s.auth.IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	if r.Method == http.MethodPost && strings.HasSuffix(rest, "/pay") {
		id, err := strconv.ParseInt(strings.TrimSuffix(rest, "/pay"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		res, err := s.orders.PreparePayment(r.Context(), id, r.FormValue("gateway"))
		if err != nil {
			log.Warn().Err(err).Int64("order", id).Msg("prepare payment")
			http.Redirect(w, r, fmt.Sprintf("/orders/%d?err=pay", id), http.StatusFound)
			return
		}
		// the gateway hands back a hosted payment page to send the shopper to
		if u, ok := res["redirect_url"].(string); ok && u != "" {
			http.Redirect(w, r, u, http.StatusFound)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/orders/%d", id), http.StatusFound)
		return
	}
	if r.Method == http.MethodPost && strings.HasSuffix(rest, "/cancel") {
		id, err := strconv.ParseInt(strings.TrimSuffix(rest, "/cancel"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if err := s.orders.Cancel(r.Context(), id); err != nil {
			log.Warn().Err(err).Int64("order", id).Msg("cancel order")
			http.Redirect(w, r, fmt.Sprintf("/orders/%d?err=cancel", id), http.StatusFound)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/orders/%d", id), http.StatusFound)
		return
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	o, err := s.orders.Get(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, "order.html", map[string]any{
		"Order":  o,
		"Placed": r.URL.Query().Get("placed") == "1",
		"Paid":   r.URL.Query().Get("paid") == "1",
		"Err":    r.URL.Query().Get("err"),
	})
}

// handlePaymentApprove is the return URL the payment gateway redirects to
// after the shopper approves on its hosted page.
func (s *Server) handlePaymentApprove(w http.ResponseWriter, r *http.Request) {
	if !s.auth.IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	q := r.URL.Query()
	orderID, err := strconv.ParseInt(q.Get("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		http.NotFound(w, r)
		return
	}
	_, err = s.orders.ApprovePayment(r.Context(), orderID, q.Get("payment_id"), q.Get("pg_token"), q.Get("gateway"))
	if err != nil {
		log.Warn().Err(err).Int64("order", orderID).Msg("approve payment")
		http.Redirect(w, r, fmt.Sprintf("/orders/%d?err=pay", orderID), http.StatusFound)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/orders/%d?paid=1", orderID), http.StatusFound)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login.html", map[string]any{"Next": next, "Err": r.URL.Query().Get("err"), "GoogleEnabled": s.oauthCfg != nil})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		_, err := s.auth.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
		if err != nil {
			log.Warn().Err(err).Msg("login")
			http.Redirect(w, r, "/login?err=credentials&next="+next, http.StatusFound)
			return
		}
		http.Redirect(w, r, next, http.StatusFound)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "signup.html", map[string]any{"Err": r.URL.Query().Get("err")})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")
		if _, err := s.auth.Register(r.Context(), r.FormValue("name"), email, password); err != nil {
			log.Warn().Err(err).Msg("signup")
			http.Redirect(w, r, "/signup?err=register", http.StatusFound)
			return
		}
		// sign straight in so the cart starts mirroring
		if _, err := s.auth.Login(r.Context(), email, password); err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout()
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	u := s.auth.CurrentUser()
	if u == nil {
		http.Redirect(w, r, "/login?next=/account", http.StatusFound)
		return
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		if err := s.auth.UpdateProfile(r.Context(), r.FormValue("name"), r.FormValue("phone")); err != nil {
			log.Warn().Err(err).Msg("update profile")
			http.Redirect(w, r, "/account?err=update", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/account", http.StatusFound)
		return
	}
	var addrs []domain.Address
	if s.auth.IsAuthenticated() {
		addrs, _ = s.orders.Addresses(r.Context())
	}
	s.render(w, "account.html", map[string]any{"Account": u, "Addresses": addrs, "Err": r.URL.Query().Get("err")})
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", http.StatusInternalServerError)
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// handleGoogleCallback signs the shopper in with a Google identity only.
// There is no backend token on this path, so the cart keeps running in
// local-only mode.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", http.StatusInternalServerError)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", http.StatusBadRequest)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", http.StatusBadRequest)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Error().Err(err).Msg("oauth userinfo")
		http.Error(w, "userinfo", http.StatusBadRequest)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", http.StatusBadRequest)
		return
	}
	s.auth.SetLocalUser(domain.User{Email: info.Email, Name: info.Name, Role: "user", IsActive: true})
	http.Redirect(w, r, "/", http.StatusFound)
}

type helpSection struct {
	Slug  string
	Title string
	Body  string
}

var helpSections = []helpSection{
	{Slug: "faq", Title: "자주 묻는 질문", Body: "주문, 배송, 반품에 대해 자주 묻는 질문을 모았습니다. 해외 직구 상품은 통관 절차에 따라 배송이 지연될 수 있습니다."},
	{Slug: "shipping", Title: "배송 안내", Body: "해외 배송은 평균 5~14일 소요됩니다. 30,000원 이상 구매 시 무료배송이 적용됩니다."},
	{Slug: "returns", Title: "교환/반품 안내", Body: "상품 수령 후 7일 이내 교환/반품 신청이 가능합니다. 해외 직구 특성상 단순 변심 반품은 왕복 배송비가 부과됩니다."},
	{Slug: "contact", Title: "고객센터", Body: "평일 09:00~18:00 (주말/공휴일 휴무) · help@konamall.example"},
	{Slug: "notice", Title: "공지사항", Body: "서비스 점검 및 이벤트 공지는 이 페이지에서 안내합니다."},
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/help"), "/")
	var current *helpSection
	for i := range helpSections {
		if helpSections[i].Slug == slug {
			current = &helpSections[i]
			break
		}
	}
	s.render(w, "help.html", map[string]any{"Sections": helpSections, "Current": current})
}

// --- Admin ---

// requireAdmin gates the console on the signed-in role, or on the env
// allowlist so an operator can reach it while the backend is down.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	u := s.auth.CurrentUser()
	if u != nil {
		if u.IsAdmin() {
			return true
		}
		if _, ok := s.adminAllowed[strings.ToLower(u.Email)]; ok {
			return true
		}
	}
	http.Redirect(w, r, "/login?next="+r.URL.Path, http.StatusFound)
	return false
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	stats, err := s.admin.Stats(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("admin stats")
	}
	s.render(w, "admin_dashboard.html", map[string]any{"Stats": stats})
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	orders, err := s.admin.Orders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin orders")
	}
	s.render(w, "admin_orders.html", map[string]any{"Orders": orders})
}

// handleAdminOrdersExport streams the order book as an xlsx workbook.
func (s *Server) handleAdminOrdersExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	orders, err := s.admin.Orders(r.Context())
	if err != nil {
		http.Error(w, "orders", http.StatusBadGateway)
		return
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Order #", "Status", "Payment", "Customer", "Phone", "Subtotal KRW", "Shipping KRW", "Total KRW", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, o := range orders {
		values := []any{
			o.OrderNumber, string(o.Status), o.PaymentStatus, o.ShippingName, o.ShippingPhone,
			o.SubtotalKRW, o.ShippingCostKRW, o.TotalAmount, o.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		http.Error(w, "xlsx", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=orders-%s.xlsx", time.Now().Format("20060102")))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	prods, err := s.admin.Products(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin products")
	}
	s.render(w, "admin_products.html", map[string]any{"Products": prods})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	users, err := s.admin.Users(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin users")
	}
	s.render(w, "admin_users.html", map[string]any{"Users": users})
}

// --- helpers ---

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Year"] = time.Now().Year()
	data["CartCount"] = s.cart.TotalItemCount()
	data["CartTotal"] = s.cart.TotalAmount()
	data["CartLoading"] = s.cart.Loading()
	if u := s.auth.CurrentUser(); u != nil {
		data["User"] = u
	}
	if s.backendUp != nil {
		data["DemoMode"] = !s.backendUp()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		if !errors.Is(err, http.ErrBodyNotAllowed) {
			http.Error(w, "tpl", http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || r.Header.Get("X-Requested-With") == "fetch"
}
