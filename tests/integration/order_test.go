//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestOrders_RequireAuthentication(t *testing.T) {
	resp := doJSON(t, http.MethodGet, "/orders", nil, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestOrders_Lifecycle(t *testing.T) {
	_, token := registerUser(t, uniqueEmail("lifecycle"))

	// Place an order with two seeded products.
	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"items": []orderLine{
			{ProductID: "prod-monitor", Quantity: 1},
			{ProductID: "prod-sicp", Quantity: 2},
		},
	}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", resp.StatusCode)
	}
	created := decode[orderResponse](t, resp)
	if created.Status != "WAITING_PAYMENT" {
		t.Fatalf("expected WAITING_PAYMENT, got %q", created.Status)
	}
	if created.Total != "1610.00" {
		t.Fatalf("expected total 1610.00, got %q", created.Total)
	}

	// Merging a proposal for an existing product is additive.
	resp = doJSON(t, http.MethodPut, "/orders/"+created.ID+"/items", map[string]any{
		"items": []orderLine{{ProductID: "prod-sicp", Quantity: 1}},
	}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("merge items: expected 200, got %d", resp.StatusCode)
	}
	merged := decode[orderResponse](t, resp)
	for _, line := range merged.Items {
		if line.ProductID == "prod-sicp" && line.Quantity != 3 {
			t.Fatalf("expected quantity 3 after merge, got %d", line.Quantity)
		}
	}

	// Paying flips the order to PAID.
	resp = doJSON(t, http.MethodPut, "/orders/"+created.ID+"/payment", map[string]string{
		"method": "PIX",
	}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay order: expected 200, got %d", resp.StatusCode)
	}
	paid := decode[orderResponse](t, resp)
	if paid.Status != "PAID" {
		t.Fatalf("expected PAID, got %q", paid.Status)
	}

	// A paid order is frozen.
	resp = doJSON(t, http.MethodPut, "/orders/"+created.ID+"/items", map[string]any{
		"items": []orderLine{{ProductID: "prod-sicp", Quantity: 1}},
	}, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("mutate paid order: expected 409, got %d", resp.StatusCode)
	}
}

func TestOrders_CouponDiscount(t *testing.T) {
	admin := adminToken(t)

	code := fmt.Sprintf("TEN%d", time.Now().UnixNano()%1e9)
	resp := doJSON(t, http.MethodPost, "/coupons", map[string]any{
		"code":               code,
		"discountPercentage": "10",
	}, admin)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create coupon: expected 201, got %d", resp.StatusCode)
	}
	created := decode[struct {
		ID string `json:"id"`
	}](t, resp)

	_, token := registerUser(t, uniqueEmail("coupon"))
	resp = doJSON(t, http.MethodPost, "/orders", map[string]any{
		"items":    []orderLine{{ProductID: "prod-monitor", Quantity: 1}},
		"couponId": created.ID,
	}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", resp.StatusCode)
	}
	o := decode[orderResponse](t, resp)
	if o.Total != "1287.90" {
		t.Fatalf("expected discounted total 1287.90, got %q", o.Total)
	}
}

func TestOrders_OwnershipIsolation(t *testing.T) {
	_, ownerTok := registerUser(t, uniqueEmail("owner"))
	_, strangerTok := registerUser(t, uniqueEmail("stranger"))

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"items": []orderLine{{ProductID: "prod-frenchpress", Quantity: 1}},
	}, ownerTok)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", resp.StatusCode)
	}
	o := decode[orderResponse](t, resp)

	resp = doJSON(t, http.MethodGet, "/orders/"+o.ID, nil, strangerTok)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger read: expected 403, got %d", resp.StatusCode)
	}

	// Admins see everything.
	resp = doJSON(t, http.MethodGet, "/orders/"+o.ID, nil, adminToken(t))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin read: expected 200, got %d", resp.StatusCode)
	}
}

func TestCatalog_WritesAreAdminOnly(t *testing.T) {
	_, token := registerUser(t, uniqueEmail("catalog"))

	resp := doJSON(t, http.MethodPost, "/products", map[string]any{
		"name":  "Forbidden",
		"price": "1.00",
	}, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
