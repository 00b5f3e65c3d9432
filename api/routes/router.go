package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serhattastan/foodfleet/api/controllers"
	"github.com/serhattastan/foodfleet/api/middleware"
	"github.com/serhattastan/foodfleet/internal/cart"
	"github.com/serhattastan/foodfleet/internal/catalog"
	"github.com/serhattastan/foodfleet/internal/coupons"
	"github.com/serhattastan/foodfleet/internal/favorites"
	"github.com/serhattastan/foodfleet/internal/orders"
	"github.com/serhattastan/foodfleet/internal/users"
	"github.com/serhattastan/foodfleet/pkg/config"
	"github.com/serhattastan/foodfleet/pkg/logger"
	"github.com/serhattastan/foodfleet/pkg/metrics"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.HTTPMetrics
	HealthDeps  map[string]controllers.Pinger
	CartSvc     cart.Service
	CatalogSvc  catalog.Service
	CouponsSvc  coupons.Service
	FavoriteSvc favorites.Service
	OrdersSvc   orders.Service
	UsersSvc    users.Service
}

// NewRouter assembles the chi router with the full middleware chain and all
// API routes.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.HealthDeps))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		// The menu and coupon catalog are readable without credentials.
		r.Get("/catalog", controllers.CatalogList(p.CatalogSvc, logg))
		r.Get("/catalog/watch", controllers.CatalogWatch(p.CatalogSvc, logg))
		r.Get("/catalog/categories", controllers.CatalogCategories(p.CatalogSvc, logg))
		r.Get("/catalog/categories/{category}", controllers.CatalogByCategory(p.CatalogSvc, logg))
		r.Get("/catalog/{foodID}", controllers.CatalogGet(p.CatalogSvc, logg))
		r.Get("/coupons", controllers.CouponsList(p.CouponsSvc, logg))
		r.Get("/coupons/watch", controllers.CouponsWatch(p.CouponsSvc, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartList(p.CartSvc, logg))
				r.Delete("/", controllers.CartClear(p.CartSvc, logg))
				r.Post("/items", controllers.CartAdd(p.CartSvc, logg))
				r.Post("/items/{lineID}/increase", controllers.CartIncrease(p.CartSvc, logg))
				r.Post("/items/{lineID}/decrease", controllers.CartDecrease(p.CartSvc, logg))
				r.Delete("/items/{lineID}", controllers.CartRemove(p.CartSvc, logg))
				r.Post("/coupon", controllers.CartApplyCoupon(p.CartSvc, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesList(p.FavoriteSvc, logg))
				r.Post("/", controllers.FavoritesAdd(p.FavoriteSvc, logg))
				r.Get("/{itemID}", controllers.FavoritesCheck(p.FavoriteSvc, logg))
				r.Delete("/{itemID}", controllers.FavoritesRemove(p.FavoriteSvc, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersHistory(p.OrdersSvc, logg))
				r.Post("/", controllers.OrdersCheckout(p.OrdersSvc, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(p.UsersSvc, logg))
				r.Patch("/", controllers.ProfileUpdate(p.UsersSvc, logg))
			})
		})
	})

	return r
}
