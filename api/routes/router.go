package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medmarket-io/medmarket-backend/api/controllers"
	"github.com/medmarket-io/medmarket-backend/api/middleware"
	authsvc "github.com/medmarket-io/medmarket-backend/internal/auth"
	cartsvc "github.com/medmarket-io/medmarket-backend/internal/cart"
	checkoutsvc "github.com/medmarket-io/medmarket-backend/internal/checkout"
	ordersvc "github.com/medmarket-io/medmarket-backend/internal/orders"
	productsvc "github.com/medmarket-io/medmarket-backend/internal/products"
	profilesvc "github.com/medmarket-io/medmarket-backend/internal/profiles"
	"github.com/medmarket-io/medmarket-backend/pkg/config"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	"github.com/medmarket-io/medmarket-backend/pkg/logger"
	"github.com/medmarket-io/medmarket-backend/pkg/redis"
)

// NewRouter assembles the storefront and dashboard HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions middleware.SessionChecker,
	registry *prometheus.Registry,
	authService authsvc.Service,
	registerService authsvc.RegisterService,
	profileService profilesvc.Service,
	productService productsvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(registerService, logg))
		r.Post("/refresh", controllers.Refresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.Logout(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Get("/{productId}", controllers.GetProduct(productService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CartToken(logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Get("/", controllers.GetCart(cartService, logg))
		r.Delete("/", controllers.ClearCart(cartService, logg))
		r.Post("/items", controllers.AddCartItem(cartService, logg))
		r.Put("/items/{productId}", controllers.UpdateCartItem(cartService, logg))
		r.Delete("/items/{productId}", controllers.RemoveCartItem(cartService, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(middleware.CartToken(logg))
		r.Post("/", controllers.BeginCheckout(checkoutService, logg))
		r.Route("/{flowId}", func(r chi.Router) {
			r.Get("/", controllers.GetCheckout(checkoutService, logg))
			r.Post("/details", controllers.SubmitCheckoutDetails(checkoutService, logg))
			r.Post("/revise", controllers.ReviseCheckout(checkoutService, logg))
			r.Post("/pay", controllers.PayCheckout(checkoutService, logg))
			r.Post("/cancel", controllers.CancelCheckout(checkoutService, logg))
		})
	})

	r.Route("/api/v1/profiles", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Get("/me", controllers.GetMyProfile(profileService, logg))
		r.Put("/me", controllers.UpdateMyProfile(profileService, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.ProfileRoleAdmin), logg))
		r.Patch("/profiles/{profileId}/status", controllers.SetProfileStatus(profileService, logg))
	})

	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireSeller(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListSellerProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(productService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListSellerOrders(orderService, logg))
			r.Get("/{orderId}", controllers.GetSellerOrder(orderService, logg))
			r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(orderService, logg))
		})
	})

	return r
}
