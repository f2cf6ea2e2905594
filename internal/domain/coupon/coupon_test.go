package coupon

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	byID map[string]*Coupon
}

func newMockRepo(coupons ...Coupon) *mockRepo {
	byID := make(map[string]*Coupon, len(coupons))
	for i := range coupons {
		byID[coupons[i].ID] = &coupons[i]
	}
	return &mockRepo{byID: byID}
}

func (m *mockRepo) FindByID(_ context.Context, id string) (*Coupon, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) FindByCode(_ context.Context, _ string) (*Coupon, error) {
	return nil, ErrNotFound
}

func (m *mockRepo) FindAll(_ context.Context) ([]Coupon, error) { return nil, nil }

func (m *mockRepo) Save(_ context.Context, c *Coupon) error {
	m.byID[c.ID] = c
	return nil
}

func (m *mockRepo) DeleteByID(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func TestValidatePercentage(t *testing.T) {
	for _, pct := range []string{"1", "10", "99.5", "100"} {
		assert.NoError(t, ValidatePercentage(decimal.RequireFromString(pct)), "pct %s", pct)
	}
	for _, pct := range []string{"0", "0.5", "-10", "100.01", "150"} {
		assert.ErrorIs(t, ValidatePercentage(decimal.RequireFromString(pct)), ErrInvalidPercentage, "pct %s", pct)
	}
}

func TestCreate(t *testing.T) {
	svc := NewService(newMockRepo())

	c, err := svc.Create(context.Background(), "TENOFF", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "TENOFF", c.Code)

	_, err = svc.Create(context.Background(), "TOOMUCH", decimal.NewFromInt(120))
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	_, err = svc.Create(context.Background(), "", decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestUpdate_ValidatesPercentage(t *testing.T) {
	svc := NewService(newMockRepo(Coupon{ID: "c1", Code: "TENOFF", DiscountPercentage: decimal.NewFromInt(10)}))

	_, err := svc.Update(context.Background(), "c1", "", decimal.NewFromInt(200))
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	c, err := svc.Update(context.Background(), "c1", "TWENTY", decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, "TWENTY", c.Code)
	assert.True(t, c.DiscountPercentage.Equal(decimal.NewFromInt(20)))
}
