package app

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/konamall/storefront/internal/adapters/backendapi"
	"github.com/konamall/storefront/internal/adapters/catalog/dummyjson"
	"github.com/konamall/storefront/internal/adapters/httpserver"
	"github.com/konamall/storefront/internal/adapters/repo/sqlite"
	"github.com/konamall/storefront/internal/cart"
	"github.com/konamall/storefront/internal/domain"
	"github.com/konamall/storefront/internal/usecase"
	"github.com/konamall/storefront/internal/views"
)

type App struct {
	DB        *gorm.DB
	Tmpl      *template.Template
	Handler   http.Handler
	Cart      *cart.Store
	AuthUC    *usecase.AuthUC
	ProductUC *usecase.ProductUC
	OrderUC   *usecase.OrderUC
	AdminUC   *usecase.AdminUC
	Probe     *backendapi.Probe
}

func NewApp(db *gorm.DB) (*App, error) {
	if err := db.AutoMigrate(&domain.CartLine{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8000"
	}
	useBackend, _ := strconv.ParseBool(os.Getenv("USE_BACKEND"))

	// auth holds the session token; the client reads it on every request
	auth := &usecase.AuthUC{}
	api := backendapi.NewClient(apiURL, auth.Token)
	auth.Backend = api

	probe := backendapi.NewProbe(apiURL, useBackend)

	cartRepo := sqlite.NewCartRepo(db)
	cartStore := cart.NewStore(cartRepo, api)
	auth.Cart = cartStore

	demo := dummyjson.New(os.Getenv("DEMO_CATALOG_URL"))

	productUC := &usecase.ProductUC{Backend: api, Fallback: demo, Probe: probe}
	orderUC := &usecase.OrderUC{Backend: api, Cart: cartStore}
	adminUC := &usecase.AdminUC{Backend: api}

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"krw": func(v int64) string {
			s := strconv.FormatInt(v, 10)
			neg := false
			if strings.HasPrefix(s, "-") {
				neg = true
				s = s[1:]
			}
			n := len(s)
			if n > 3 {
				rem := n % 3
				if rem == 0 {
					rem = 3
				}
				out := s[:rem]
				for i := rem; i < n; i += 3 {
					out += "," + s[i:i+3]
				}
				s = out
			}
			if neg {
				s = "-" + s
			}
			return s + "원"
		},
	}

	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	isDev := appEnv == "" || appEnv == "development" || appEnv == "dev"

	var tmpl *template.Template
	var err error
	if isDev {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseGlob("internal/views/*.html")
		if err != nil {
			return nil, err
		}
		_, err = tmpl.ParseGlob("internal/views/admin/*.html")
		if err != nil {
			return nil, err
		}
	} else {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseFS(views.FS, "*.html", "admin/*.html")
		if err != nil {
			return nil, err
		}
	}

	handler := httpserver.New(tmpl, productUC, orderUC, auth, adminUC, cartStore, oauthCfg, func() bool {
		return probe.Alive()
	})

	return &App{
		DB:        db,
		Tmpl:      tmpl,
		Handler:   handler,
		Cart:      cartStore,
		AuthUC:    auth,
		ProductUC: productUC,
		OrderUC:   orderUC,
		AdminUC:   adminUC,
		Probe:     probe,
	}, nil
}
