// Package server exposes the back-office over HTTP. Handlers are thin:
// they bind input, call into the catalog, registry, and ledgers, and
// render whatever those report. No invariants live here.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-backoffice/internal/shop"
)

type Server struct {
	catalog  *shop.Catalog
	ledger   *shop.OrderLedger
	payments *shop.PaymentLedger
	registry *shop.Registry
	reports  shop.ReportStore
	log      *zap.Logger
}

func New(catalog *shop.Catalog, ledger *shop.OrderLedger, payments *shop.PaymentLedger, registry *shop.Registry, reports shop.ReportStore, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		catalog:  catalog,
		ledger:   ledger,
		payments: payments,
		registry: registry,
		reports:  reports,
		log:      log,
	}
}

func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	api := r.Group("/api")
	{
		api.GET("/home", s.home)

		api.GET("/products", s.listProducts)
		api.GET("/products/search", s.listProducts)
		api.POST("/products", s.createProduct)
		api.GET("/products/:id", s.getProduct)
		api.PUT("/products/:id", s.updateProduct)
		api.DELETE("/products/:id", s.deleteProduct)
		api.GET("/products/:id/availability", s.productAvailability)

		api.GET("/categories", s.listCategories)
		api.POST("/categories", s.createCategory)

		api.GET("/clients", s.listClients)
		api.POST("/clients", s.createClient)
		api.GET("/employees", s.listEmployees)
		api.POST("/employees", s.createEmployee)

		api.POST("/orders", s.openOrder)
		api.GET("/orders/:id", s.orderDetail)
		api.PUT("/orders/:id", s.saveOrder)
		api.GET("/orders/:id/total", s.orderTotal)
		api.POST("/orders/:id/items", s.addOrderItem)
		api.POST("/orders/:id/payment", s.createPayment)
		api.POST("/orders/:id/sync-payment", s.syncPayment)

		api.PUT("/order-items/:id", s.updateOrderItem)
		api.DELETE("/order-items/:id", s.deleteOrderItem)
	}
	return r
}

// respondError maps domain errors onto HTTP statuses: validation failures
// are 409, missing entities 404, anything else 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var ve *shop.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusConflict, gin.H{"error": ve.Msg})
	case errors.Is(err, shop.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": shop.ErrDuplicateEmail.Error()})
	case errors.Is(err, shop.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ----- home -----

func (s *Server) home(c *gin.Context) {
	ctx := c.Request.Context()
	popular, err := s.reports.TopProductsBySold(ctx, 5)
	if err != nil {
		s.respondError(c, err)
		return
	}
	newCategories, err := s.reports.NewestCategories(ctx, 5)
	if err != nil {
		s.respondError(c, err)
		return
	}
	latestOrders, err := s.reports.RecentOrders(ctx, 5)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"popular_products": popular,
		"new_categories":   newCategories,
		"latest_orders":    latestOrders,
	})
}

// ----- products -----

type productRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    string          `json:"category_id" binding:"required"`
	StockQuantity int             `json:"stock_quantity"`
	Gender        shop.Gender     `json:"gender"`
	Brand         string          `json:"brand"`
	Size          string          `json:"size"`
	CreatedBy     string          `json:"created_by"`
}

func (r productRequest) product() *shop.Product {
	return &shop.Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		CategoryID:    r.CategoryID,
		StockQuantity: r.StockQuantity,
		Gender:        r.Gender,
		Brand:         r.Brand,
		Size:          r.Size,
		CreatedBy:     r.CreatedBy,
	}
}

func (s *Server) listProducts(c *gin.Context) {
	query := c.Query("query")
	categoryID := c.Query("category")
	products, err := s.catalog.SearchProducts(c.Request.Context(), query, categoryID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	p, err := s.catalog.CreateProduct(c.Request.Context(), req.product())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	p := req.product()
	p.ID = c.Param("id")
	if err := s.catalog.UpdateProduct(c.Request.Context(), p); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) productAvailability(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	sold, err := s.catalog.SoldQuantity(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stock_quantity":  p.StockQuantity,
		"sold_quantity":   sold,
		"remaining_stock": p.StockQuantity - sold,
	})
}

// ----- categories -----

func (s *Server) listCategories(c *gin.Context) {
	summaries, err := s.reports.CategorySummaries(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) createCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	cat, err := s.catalog.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// ----- clients and employees -----

func (s *Server) listClients(c *gin.Context) {
	clients, err := s.registry.ListClients(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (s *Server) createClient(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	client, err := s.registry.CreateClient(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (s *Server) listEmployees(c *gin.Context) {
	employees, err := s.registry.ListEmployees(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (s *Server) createEmployee(c *gin.Context) {
	var req struct {
		Name     string    `json:"name" binding:"required"`
		Position string    `json:"position"`
		HireDate time.Time `json:"hire_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	emp, err := s.registry.CreateEmployee(c.Request.Context(), req.Name, req.Position, req.HireDate)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// ----- orders -----

func (s *Server) openOrder(c *gin.Context) {
	var req struct {
		ClientID string `json:"client_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	order, err := s.ledger.OpenOrder(c.Request.Context(), req.ClientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) orderDetail(c *gin.Context) {
	view, err := s.ledger.GetOrderDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) saveOrder(c *gin.Context) {
	var req struct {
		Status       shop.OrderStatus `json:"status" binding:"required"`
		DateReceived *time.Time       `json:"date_received"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	ctx := c.Request.Context()
	view, err := s.ledger.GetOrderDetail(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	order := view.Order
	order.Status = req.Status
	order.DateReceived = req.DateReceived
	if err := s.ledger.SaveOrder(ctx, &order); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) orderTotal(c *gin.Context) {
	total, err := s.ledger.RecalculateOrderTotal(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_price": total})
}

func (s *Server) addOrderItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	item, err := s.ledger.CreateOrderItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) createPayment(c *gin.Context) {
	var req struct {
		Method shop.PaymentMethod `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	payment, err := s.payments.CreatePayment(c.Request.Context(), c.Param("id"), req.Method)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (s *Server) syncPayment(c *gin.Context) {
	if err := s.payments.SyncAmount(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "synced"})
}

func (s *Server) updateOrderItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	item, err := s.ledger.UpdateOrderItemQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteOrderItem(c *gin.Context) {
	if err := s.ledger.DeleteOrderItem(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
