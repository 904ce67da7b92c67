package router

import (
	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/config"
	"github.com/partsden/partsden-backend/internal/app/controller"
	"github.com/partsden/partsden-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	customerController *controller.CustomerController
	vehicleController  *controller.VehicleController
	productController  *controller.ProductController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	customerController *controller.CustomerController,
	vehicleController *controller.VehicleController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		customerController: customerController,
		vehicleController:  vehicleController,
		productController:  productController,
		cartController:     cartController,
		orderController:    orderController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "PARTSDEN API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/home", r.productController.GetHome)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("/makes", r.vehicleController.ListMakes)
			vehicles.GET("/makes/:id/models", r.vehicleController.ListModels)
			vehicles.GET("/models/:id/vehicles", r.vehicleController.ListVehicles)

			selected := vehicles.Group("/selected")
			selected.Use(r.authMiddleware.OptionalAuthenticate(), middleware.Session())
			{
				selected.GET("", r.vehicleController.GetSelectedVehicle)
				selected.POST("", r.vehicleController.SelectVehicle)
				selected.DELETE("", r.vehicleController.ClearSelectedVehicle)
			}

			vehicles.GET("/:id", r.vehicleController.GetVehicle)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.productController.ListCategories)
			categories.GET("/:slug", r.productController.GetCategoryBySlug)
		}

		v1.GET("/manufacturers", r.productController.ListManufacturers)

		products := v1.Group("/products")
		products.Use(r.authMiddleware.OptionalAuthenticate(), middleware.Session())
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/slug/:slug", r.productController.GetProductBySlug)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/fits/:vehicle_id", r.productController.CheckFitment)
		}

		me := v1.Group("/customers/me")
		me.Use(r.authMiddleware.Authenticate())
		{
			me.GET("", r.customerController.GetProfile)
			me.PUT("", r.customerController.UpdateProfile)

			me.GET("/addresses", r.customerController.ListAddresses)
			me.POST("/addresses", r.customerController.AddAddress)
			me.PUT("/addresses/:id", r.customerController.UpdateAddress)
			me.DELETE("/addresses/:id", r.customerController.DeleteAddress)
			me.PUT("/addresses/:id/default", r.customerController.SetDefaultAddress)

			me.GET("/garage", r.customerController.ListGarage)
			me.POST("/garage", r.customerController.AddToGarage)
			me.PUT("/garage/:id", r.customerController.UpdateGarageEntry)
			me.DELETE("/garage/:id", r.customerController.RemoveFromGarage)
			me.PUT("/garage/:id/primary", r.customerController.SetPrimaryVehicle)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.ListOrders)
			orders.POST("", r.orderController.PlaceOrder)
			orders.GET("/number/:number", r.orderController.GetOrderByNumber)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/vehicles/makes", r.vehicleController.CreateMake)
			admin.POST("/vehicles/models", r.vehicleController.CreateModel)
			admin.POST("/vehicles", r.vehicleController.CreateVehicle)

			admin.POST("/categories", r.productController.CreateCategory)
			admin.PUT("/categories/:id", r.productController.UpdateCategory)
			admin.DELETE("/categories/:id", r.productController.DeleteCategory)

			admin.POST("/manufacturers", r.productController.CreateManufacturer)

			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)
			admin.POST("/products/:id/fitments", r.productController.AddFitment)
			admin.DELETE("/products/:id/fitments/:fitment_id", r.productController.RemoveFitment)
			admin.POST("/products/:id/specifications", r.productController.AddSpecification)
			admin.DELETE("/products/:id/specifications/:spec_id", r.productController.RemoveSpecification)
			admin.POST("/products/:id/documents", r.productController.AddDocument)
			admin.DELETE("/products/:id/documents/:document_id", r.productController.RemoveDocument)

			admin.GET("/orders", r.orderController.ListAllOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)
			admin.PUT("/orders/:id/payment", r.orderController.UpdatePaymentStatus)

			admin.POST("/uploads/documents", r.uploadController.PresignDocumentUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
