package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace-service/config"
	"marketplace-service/controllers"
	"marketplace-service/middlewares"
	"marketplace-service/services"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config   *config.Config
	Auth     *services.AuthService
	Google   controllers.GoogleIdentity
	Products *services.ProductService
	Carts    *services.CartService
	Wishlist *services.WishlistService
	Address  *services.AddressService
	Users    *services.UserService
	Orders   *services.OrderService
	Payments *services.PaymentService
	Admin    *services.AdminService
}

func SetupRouter(d Deps) *gin.Engine {
	controllers.ExposeErrorDetails(!d.Config.IsProduction())

	r := gin.New()
	r.Use(middlewares.Recovery(), middlewares.RequestLogger(), middlewares.PrometheusMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middlewares.AuthMiddleware(d.Config.JWTSecret)
	api := r.Group("/api")

	authCtl := controllers.NewAuthController(d.Auth, d.Config, d.Google)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.GET("/verify-email/:token", authCtl.VerifyEmail)
		auth.POST("/forgot-password", authCtl.ForgotPassword)
		auth.POST("/reset-password/:token", authCtl.ResetPassword)
		auth.GET("/logout", authCtl.Logout)
		auth.GET("/verify-auth", authRequired, authCtl.VerifyAuth)
		auth.GET("/google", authCtl.GoogleLogin)
		auth.GET("/google/callback", authCtl.GoogleCallback)
	}

	products := api.Group("/products")
	{
		products.POST("", authRequired, controllers.CreateProduct(d.Products))
		products.GET("", controllers.GetProducts(d.Products))
		products.GET("/:id", controllers.GetProduct(d.Products))
	}

	cart := api.Group("/cart", authRequired)
	{
		cart.POST("/add", controllers.AddToCart(d.Carts))
		cart.GET("/:userId", controllers.GetCart(d.Carts))
		cart.DELETE("/remove/:productId", controllers.RemoveFromCart(d.Carts))
	}

	wishlist := api.Group("/wishlist", authRequired)
	{
		wishlist.POST("/add", controllers.AddToWishlist(d.Wishlist))
		wishlist.GET("/:userId", controllers.GetWishlist(d.Wishlist))
		wishlist.DELETE("/remove/:productId", controllers.RemoveFromWishlist(d.Wishlist))
	}

	address := api.Group("/user-address", authRequired)
	{
		address.POST("/create-or-update", controllers.CreateOrUpdateAddress(d.Address))
		address.GET("", controllers.GetAddresses(d.Address))
	}

	api.PUT("/users/profile/update", authRequired, controllers.UpdateProfile(d.Users))

	order := api.Group("/order", authRequired)
	{
		order.POST("", controllers.CreateOrUpdateOrder(d.Orders))
		order.GET("", controllers.GetUserOrders(d.Orders))
		order.GET("/:id", controllers.GetOrderDetails(d.Orders))
	}

	pay := api.Group("/payment")
	{
		pay.POST("/razorpay", authRequired, controllers.CreatePayment(d.Payments))
		// called by the gateway, authenticated by its signature
		pay.POST("/razorpay-webhook", controllers.PaymentWebhook(d.Payments))
	}

	admin := api.Group("/admin", authRequired, middlewares.AdminOnly())
	{
		admin.GET("/dashboard-stats", controllers.GetDashboardStats(d.Admin))
		admin.GET("/orders", controllers.GetPayableOrders(d.Admin))
		admin.PUT("/orders/:id", controllers.UpdateOrderStatus(d.Admin))
		admin.POST("/process-seller-payment/:orderId", controllers.ProcessSellerPayment(d.Admin))
		admin.GET("/seller-payments", controllers.GetSellerPayments(d.Admin))
	}

	return r
}
