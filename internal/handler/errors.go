package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/orderdesk/api/internal/domain/actor"
	"github.com/orderdesk/api/internal/domain/category"
	"github.com/orderdesk/api/internal/domain/coupon"
	"github.com/orderdesk/api/internal/domain/order"
	"github.com/orderdesk/api/internal/domain/product"
	"github.com/orderdesk/api/internal/domain/user"
)

// respondError maps a domain error onto an HTTP status and JSON body.
// Unknown errors become 500 and are logged; their text never leaks to the
// client.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		zctx.From(c.Request.Context()).Error("Internal error", zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	var (
		couponApplied *order.CouponAlreadyAppliedError
		badStatus     *order.InvalidStatusError
		badMethod     *order.InvalidPaymentMethodError
		badQuantity   *order.InvalidQuantityError
		noProduct     *order.ProductNotFoundError
	)
	switch {
	case errors.Is(err, actor.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrAccessDenied),
		errors.Is(err, user.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, coupon.ErrNotFound),
		errors.As(err, &noProduct):
		return http.StatusNotFound
	case errors.Is(err, order.ErrStatusConflict),
		errors.Is(err, order.ErrIntegrity),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrInUse),
		errors.Is(err, product.ErrInUse),
		errors.Is(err, category.ErrInUse),
		errors.Is(err, coupon.ErrInUse),
		errors.Is(err, coupon.ErrCodeTaken),
		errors.As(err, &couponApplied):
		return http.StatusConflict
	case errors.Is(err, user.ErrPasswordLength),
		errors.Is(err, user.ErrPasswordPattern),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, coupon.ErrInvalidPercentage),
		errors.As(err, &badStatus),
		errors.As(err, &badMethod),
		errors.As(err, &badQuantity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
