package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace_platform/internal/models"
	"marketplace_platform/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type APIHandler struct {
	userService   services.UserService
	vendorService services.VendorService
	orderService  services.OrderService
	payoutService services.PayoutService
}

func NewAPIHandler(
	userService services.UserService,
	vendorService services.VendorService,
	orderService services.OrderService,
	payoutService services.PayoutService,
) *APIHandler {
	return &APIHandler{
		userService:   userService,
		vendorService: vendorService,
		orderService:  orderService,
		payoutService: payoutService,
	}
}

// RegisterVendor creates a portal account (unless an existing one is given)
// and files a vendor request in the new state for admin review.
func (h *APIHandler) RegisterVendor(c *gin.Context) {
	var req struct {
		PartnerID   uint   `json:"partner_id"`
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Phone       string `json:"phone"`
		ShopName    string `json:"shop_name" binding:"required"`
		ShopURL     string `json:"shop_url" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	partnerID := req.PartnerID
	if partnerID == 0 {
		if req.Username == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required for new accounts"})
			return
		}
		user := &models.User{
			Username: req.Username,
			Email:    req.Email,
			Phone:    req.Phone,
			IsActive: true,
		}
		if err := h.userService.CreateUser(user, req.Password); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create account"})
			return
		}
		partnerID = user.ID
	}

	vendor, err := h.vendorService.Register(partnerID, req.ShopName, req.ShopURL, req.Phone, req.Email, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

// VendorDashboard returns the vendor profile with its derived balance, its
// order lines and its payout history.
func (h *APIHandler) VendorDashboard(c *gin.Context) {
	vendorID, ok := paramID(c, "vendor_id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetByID(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	balance, err := h.vendorService.Balance(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	vendor.Balance = balance

	lines, err := h.orderService.GetVendorLines(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	payouts, err := h.payoutService.GetByVendor(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendor":      vendor,
		"order_lines": lines,
		"payouts":     payouts,
	})
}

func (h *APIHandler) GetVendorBalance(c *gin.Context) {
	vendorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	balance, err := h.vendorService.Balance(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor_id": vendorID, "balance": balance})
}

func (h *APIHandler) GetVendorProducts(c *gin.Context) {
	vendorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	products, err := h.vendorService.GetProducts(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *APIHandler) CreateProduct(c *gin.Context) {
	var req struct {
		VendorID       *uint           `json:"vendor_id"`
		Name           string          `json:"name" binding:"required"`
		ListPrice      decimal.Decimal `json:"list_price" binding:"required"`
		CommissionRate decimal.Decimal `json:"commission_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	product, err := h.vendorService.AddProduct(req.VendorID, req.Name, req.ListPrice, req.CommissionRate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *APIHandler) RequestPayout(c *gin.Context) {
	var req struct {
		VendorID uint            `json:"vendor_id" binding:"required"`
		Amount   decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	payout, err := h.payoutService.RequestPayout(req.VendorID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payout)
}

func (h *APIHandler) GetVendorPayouts(c *gin.Context) {
	vendorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	payouts, err := h.payoutService.GetByVendor(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.orderService.CreateOrder(&order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) AddOrderLine(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ProductID   uint            `json:"product_id" binding:"required"`
		Quantity    int             `json:"quantity" binding:"required"`
		UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
		Description string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	line, err := h.orderService.AddLine(orderID, req.ProductID, req.Quantity, req.UnitPrice, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	lines, err := h.orderService.GetOrderLines(orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	order.Lines = lines
	c.JSON(http.StatusOK, order)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrZeroSubtotal),
		errors.Is(err, services.ErrReasonRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrVendorNotApproved),
		errors.Is(err, services.ErrOrderNotBillable),
		errors.Is(err, services.ErrVendorExists),
		errors.Is(err, services.ErrShopURLTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoCommissionRate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
