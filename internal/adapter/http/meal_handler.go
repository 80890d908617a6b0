package http

import (
	"context"
	"net/http"
	"time"

	domain "github.com/dulcecostawork-hub/minifood-api/internal/entity"
	"github.com/dulcecostawork-hub/minifood-api/internal/logging"
	"github.com/dulcecostawork-hub/minifood-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var checkoutResults = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_results_total",
		Help: "Checkout outcomes by result code",
	},
	[]string{"code"},
)

type MealHandler struct {
	catalog  usecase.Catalog
	cart     *usecase.CartCheck
	checkout *usecase.Checkout
}

func NewMealHandler(catalog usecase.Catalog, cart *usecase.CartCheck, checkout *usecase.Checkout) *MealHandler {
	return &MealHandler{catalog: catalog, cart: cart, checkout: checkout}
}

type checkoutReq struct {
	Items    []domain.CartLine `json:"items"`
	Customer domain.Customer   `json:"customer"`
}

// ListMeals returns the catalog as-is, stock included.
func (h *MealHandler) ListMeals(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.ListAll())
}

// CheckCartLine validates a single prospective cart line (qty capped at 10)
// without reserving anything.
func (h *MealHandler) CheckCartLine(c *gin.Context) {
	var line domain.CartLine
	// An absent or unparseable body behaves like an empty one: the zero line
	// fails lookup and reports NOT_FOUND, same as the storefront always did.
	_ = c.ShouldBindJSON(&line)

	v, fault := h.cart.Execute(line)
	if fault != nil {
		renderCartFault(c, fault)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok": true,
		"item": gin.H{
			"mealId":    v.Meal.ID,
			"qty":       v.Qty,
			"unitPrice": v.Meal.Price,
		},
	})
}

// Checkout runs the full order pipeline.
func (h *MealHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	_ = c.ShouldBindJSON(&req)

	idemKey := c.GetHeader("X-Idempotency-Key")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	order, fault := h.checkout.Execute(ctx, usecase.CheckoutInput{
		Lines:          req.Items,
		Customer:       req.Customer,
		IdempotencyKey: idemKey,
	})
	if fault != nil {
		checkoutResults.WithLabelValues(fault.Code).Inc()
		renderCheckoutFault(c, fault)
		return
	}

	checkoutResults.WithLabelValues("OK").Inc()
	logging.From(c).Info("order placed", "orderId", order.ID, "total", order.Total)
	c.JSON(http.StatusCreated, gin.H{
		"ok":      true,
		"orderId": order.ID,
		"total":   order.Total,
	})
}

// ResetCatalog restores the seed state. Deliberately unauthenticated, like
// the storefront demo it serves.
func (h *MealHandler) ResetCatalog(c *gin.Context) {
	h.catalog.Reset()
	logging.From(c).Info("catalog reset")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func statusFor(code string) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidQty, domain.CodeInvalidCart:
		return http.StatusUnprocessableEntity
	case domain.CodeOutOfStock, domain.CodeDuplicateRequest:
		return http.StatusConflict
	case domain.CodeTermsNotAccepted:
		return http.StatusPreconditionFailed
	case domain.CodeMinOrderNotMet:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// renderCartFault writes the single-line cart error shape: OUT_OF_STOCK
// carries `available` at the top level.
func renderCartFault(c *gin.Context, f *domain.Fault) {
	body := gin.H{"ok": false, "code": f.Code, "message": f.Message}
	if f.Code == domain.CodeOutOfStock && f.Available != nil {
		body["available"] = *f.Available
	}
	c.JSON(statusFor(f.Code), body)
}

// renderCheckoutFault writes the checkout error shape: OUT_OF_STOCK nests
// `details`, INVALID_QTY names the offending path, MIN_ORDER_NOT_MET reports
// both threshold and computed total.
func renderCheckoutFault(c *gin.Context, f *domain.Fault) {
	body := gin.H{"ok": false, "code": f.Code, "message": f.Message}
	switch f.Code {
	case domain.CodeOutOfStock:
		details := gin.H{"mealId": f.MealID}
		if f.Available != nil {
			details["available"] = *f.Available
		}
		body["details"] = details
	case domain.CodeInvalidQty:
		if f.Path != "" {
			body["path"] = f.Path
		}
	case domain.CodeMinOrderNotMet:
		body["minimum"] = f.Minimum
		body["total"] = f.Total
	}
	c.JSON(statusFor(f.Code), body)
}
