package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"WAITING_PAYMENT", StatusWaitingPayment},
		{"waiting_payment", StatusWaitingPayment},
		{" Paid ", StatusPaid},
		{"CANCELED", StatusCanceled},
		{"1", StatusWaitingPayment},
		{"2", StatusPaid},
		{"3", StatusCanceled},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, in := range []string{"", "SHIPPED", "0", "4", "-1"} {
		_, err := ParseStatus(in)

		var ise *InvalidStatusError
		require.ErrorAs(t, err, &ise, "input %q", in)
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusWaitingPayment.Terminal())
	assert.True(t, StatusPaid.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "WAITING_PAYMENT", StatusWaitingPayment.String())
	assert.Equal(t, "PAID", StatusPaid.String())
	assert.Equal(t, "CANCELED", StatusCanceled.String())
	assert.Equal(t, "9", Status(9).String())
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentMethod
	}{
		{"", 0},
		{"CREDIT_CARD", MethodCreditCard},
		{"debit_card", MethodDebitCard},
		{"PAGBANK", MethodPagBank},
		{"pix", MethodPix},
		{"1", MethodCreditCard},
		{"4", MethodPix},
	}
	for _, tt := range tests {
		got, err := ParsePaymentMethod(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParsePaymentMethod_Invalid(t *testing.T) {
	for _, in := range []string{"CASH", "0", "5"} {
		_, err := ParsePaymentMethod(in)

		var ipm *InvalidPaymentMethodError
		require.ErrorAs(t, err, &ipm, "input %q", in)
	}
}
