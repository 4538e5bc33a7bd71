package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the handlers depend on.
type Deps struct {
	ProductSvc productService
	CartSvc    cartService
	TicketSvc  ticketService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	router.PUT("/products/:id", updateProductHandler(deps.ProductSvc))

	router.POST("/carts", createCartHandler(deps.CartSvc))
	router.GET("/carts/:id", getCartHandler(deps.CartSvc))
	router.PUT("/carts/:id", setCartItemsHandler(deps.CartSvc))
	router.DELETE("/carts/:id", deleteCartHandler(deps.CartSvc))
	router.POST("/carts/:id/items", addCartItemHandler(deps.CartSvc))
	router.DELETE("/carts/:id/items", clearCartHandler(deps.CartSvc))
	router.DELETE("/carts/:id/items/:productId", removeCartItemHandler(deps.CartSvc))
	router.POST("/carts/:id/checkout", checkoutHandler(deps.CartSvc))

	router.GET("/tickets", listTicketsHandler(deps.TicketSvc))
	router.GET("/tickets/:code", getTicketHandler(deps.TicketSvc))

	return router
}
