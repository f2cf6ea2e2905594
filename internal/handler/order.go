package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/api/internal/domain/order"
)

type orderLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items    []orderLineRequest `json:"items"`
	CouponID string             `json:"couponId"`
	PlacedAt *time.Time         `json:"placedAt"`
}

type updateOrderRequest struct {
	Status   string `json:"status"`
	OwnerID  string `json:"ownerId"`
	CouponID string `json:"couponId"`
}

type orderLineResponse struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type orderCouponResponse struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

type orderPaymentResponse struct {
	ID     string    `json:"id"`
	PaidAt time.Time `json:"paidAt"`
	Method string    `json:"method,omitempty"`
}

type orderResponse struct {
	ID       string                `json:"id"`
	PlacedAt time.Time             `json:"placedAt"`
	Status   string                `json:"status"`
	Code     int                   `json:"statusCode"`
	OwnerID  string                `json:"ownerId"`
	Items    []orderLineResponse   `json:"items"`
	Coupon   *orderCouponResponse  `json:"coupon,omitempty"`
	Payment  *orderPaymentResponse `json:"payment,omitempty"`
	Total    decimal.Decimal       `json:"total"`
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:       o.ID,
		PlacedAt: o.PlacedAt,
		Status:   o.Status.String(),
		Code:     o.Status.Code(),
		OwnerID:  o.OwnerID,
		Items:    make([]orderLineResponse, 0, len(o.Items)),
		Total:    o.Total(),
	}
	for _, line := range o.Items {
		resp.Items = append(resp.Items, orderLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}
	if o.Discount != nil {
		resp.Coupon = &orderCouponResponse{
			ID:                 o.Discount.ID,
			Code:               o.Discount.Code,
			DiscountPercentage: o.Discount.DiscountPercentage,
		}
	}
	if o.Payment != nil {
		method := ""
		if o.Payment.Method != 0 {
			method = o.Payment.Method.String()
		}
		resp.Payment = &orderPaymentResponse{
			ID:     o.Payment.ID,
			PaidAt: o.Payment.PaidAt,
			Method: method,
		}
	}
	return resp
}

func toLineInputs(items []orderLineRequest) []order.LineInput {
	inputs := make([]order.LineInput, len(items))
	for i, it := range items {
		inputs[i] = order.LineInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return inputs
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svcReq := order.CreateRequest{
		Items:    toLineInputs(req.Items),
		CouponID: req.CouponID,
	}
	if req.PlacedAt != nil {
		svcReq.PlacedAt = *req.PlacedAt
	}

	o, err := h.orders.Create(c.Request.Context(), actorFrom(c), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), actorFrom(c), order.ListRequest{
		OwnerID: c.Query("ownerId"),
		Status:  c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) updateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.Update(c.Request.Context(), actorFrom(c), c.Param("id"), order.UpdateRequest{
		Status:   req.Status,
		OwnerID:  req.OwnerID,
		CouponID: req.CouponID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateOrderItems(c *gin.Context) {
	var req struct {
		Items []orderLineRequest `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.UpdateItems(c.Request.Context(), actorFrom(c), c.Param("id"), toLineInputs(req.Items))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) removeOrderItem(c *gin.Context) {
	o, err := h.orders.RemoveItem(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) setOrderCoupon(c *gin.Context) {
	var req struct {
		CouponID string `json:"couponId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.SetCoupon(c.Request.Context(), actorFrom(c), c.Param("id"), req.CouponID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) clearOrderCoupon(c *gin.Context) {
	o, err := h.orders.SetCoupon(c.Request.Context(), actorFrom(c), c.Param("id"), "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) setOrderPayment(c *gin.Context) {
	var req struct {
		Method string     `json:"method"`
		PaidAt *time.Time `json:"paidAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svcReq := order.PaymentRequest{Method: req.Method}
	if req.PaidAt != nil {
		svcReq.PaidAt = *req.PaidAt
	}

	o, err := h.orders.SetPayment(c.Request.Context(), actorFrom(c), c.Param("id"), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) setOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.SetStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}
