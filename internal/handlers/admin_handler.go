package handlers

import (
	"net/http"

	"marketplace_platform/internal/repository"
	"marketplace_platform/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	vendorService     services.VendorService
	orderService      services.OrderService
	commissionService services.CommissionService
	payoutService     services.PayoutService
	auditRepo         repository.AuditRepository
}

func NewAdminHandler(
	vendorService services.VendorService,
	orderService services.OrderService,
	commissionService services.CommissionService,
	payoutService services.PayoutService,
	auditRepo repository.AuditRepository,
) *AdminHandler {
	return &AdminHandler{
		vendorService:     vendorService,
		orderService:      orderService,
		commissionService: commissionService,
		payoutService:     payoutService,
		auditRepo:         auditRepo,
	}
}

func (h *AdminHandler) GetPendingVendors(c *gin.Context) {
	vendors, err := h.vendorService.GetPendingRequests()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (h *AdminHandler) ApproveVendor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	vendor, err := h.vendorService.Approve(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *AdminHandler) RejectVendor(c *gin.Context) {
	h.refuseVendor(c, false)
}

func (h *AdminHandler) SuspendVendor(c *gin.Context) {
	h.refuseVendor(c, true)
}

func (h *AdminHandler) refuseVendor(c *gin.Context, suspend bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required"})
		return
	}

	var err error
	if suspend {
		_, err = h.vendorService.Suspend(id, req.Reason)
	} else {
		_, err = h.vendorService.Reject(id, req.Reason)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refused", "reason": req.Reason})
}

// ConfirmOrder is the order confirmation entry point. Commission generation
// runs as part of it but its per-line failures never fail the confirmation.
func (h *AdminHandler) ConfirmOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, result, err := h.orderService.ConfirmOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "commissions": result})
}

// BackfillCommissions re-runs commission generation over all billable
// orders; safe to call any number of times.
func (h *AdminHandler) BackfillCommissions(c *gin.Context) {
	result, err := h.orderService.BackfillCommissions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) VoidCommission(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required"})
		return
	}
	commission, err := h.commissionService.VoidCommission(id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commission)
}

func (h *AdminHandler) ValidatePayout(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payout, err := h.payoutService.Validate(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}

func (h *AdminHandler) PayPayout(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PaymentReference string `json:"payment_reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A payment reference is required"})
		return
	}
	payout, err := h.payoutService.MarkPaid(id, req.PaymentReference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}

func (h *AdminHandler) RejectPayout(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required"})
		return
	}
	payout, err := h.payoutService.Reject(id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}

// GetAuditTrail lets admins inspect lifecycle events, e.g. why a line is
// missing a commission record.
func (h *AdminHandler) GetAuditTrail(c *gin.Context) {
	entityType := c.Param("entity")
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entries, err := h.auditRepo.GetByEntity(entityType, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
