package order

import (
	"fmt"
	"strconv"
	"strings"
)

// Status is the order lifecycle state. Statuses travel over the wire both
// as names and as stable numeric codes, so both forms are accepted on
// input; names are emitted on output.
type Status int

const (
	StatusWaitingPayment Status = 1
	StatusPaid           Status = 2
	StatusCanceled       Status = 3
)

var statusNames = map[Status]string{
	StatusWaitingPayment: "WAITING_PAYMENT",
	StatusPaid:           "PAID",
	StatusCanceled:       "CANCELED",
}

// InvalidStatusError indicates a supplied status value matched neither a
// known name nor a known code.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Value)
}

// String returns the status name, or the raw code for unknown values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return strconv.Itoa(int(s))
}

// Code returns the stable numeric code.
func (s Status) Code() int {
	return int(s)
}

// Valid reports whether s is one of the three recognized statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Terminal reports whether the status freezes the order. PAID and CANCELED
// admit no further transition.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCanceled
}

// ParseStatus accepts a status name (case-insensitive) or a numeric code.
// The name match is attempted first.
func ParseStatus(value string) (Status, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	for s, name := range statusNames {
		if name == upper {
			return s, nil
		}
	}
	if code, err := strconv.Atoi(upper); err == nil {
		s := Status(code)
		if s.Valid() {
			return s, nil
		}
	}
	return 0, &InvalidStatusError{Value: value}
}

// PaymentMethod enumerates the accepted payment methods. The zero value
// means "no method given"; attaching a payment without a method does not
// complete the order.
type PaymentMethod int

const (
	MethodCreditCard PaymentMethod = 1
	MethodDebitCard  PaymentMethod = 2
	MethodPagBank    PaymentMethod = 3
	MethodPix        PaymentMethod = 4
)

var methodNames = map[PaymentMethod]string{
	MethodCreditCard: "CREDIT_CARD",
	MethodDebitCard:  "DEBIT_CARD",
	MethodPagBank:    "PAGBANK",
	MethodPix:        "PIX",
}

// InvalidPaymentMethodError indicates an unrecognized payment method value.
type InvalidPaymentMethodError struct {
	Value string
}

func (e *InvalidPaymentMethodError) Error() string {
	return fmt.Sprintf("invalid payment method %q", e.Value)
}

// String returns the method name, or the raw code for unknown values.
func (m PaymentMethod) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return strconv.Itoa(int(m))
}

// ParsePaymentMethod accepts a method name (case-insensitive) or a numeric
// code, name first. An empty value is valid and yields the zero method.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "" {
		return 0, nil
	}
	for m, name := range methodNames {
		if name == upper {
			return m, nil
		}
	}
	if code, err := strconv.Atoi(upper); err == nil {
		if _, ok := methodNames[PaymentMethod(code)]; ok {
			return PaymentMethod(code), nil
		}
	}
	return 0, &InvalidPaymentMethodError{Value: value}
}
