package enums

import "fmt"

// CheckoutState tracks a checkout flow from the details form to a placed order.
type CheckoutState string

const (
	CheckoutStateCollectingDetails CheckoutState = "collecting_details"
	CheckoutStateAwaitingPayment   CheckoutState = "awaiting_payment"
	CheckoutStateSubmitting        CheckoutState = "submitting"
	CheckoutStateCompleted         CheckoutState = "completed"
	CheckoutStateCancelled         CheckoutState = "cancelled"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateCollectingDetails,
	CheckoutStateAwaitingPayment,
	CheckoutStateSubmitting,
	CheckoutStateCompleted,
	CheckoutStateCancelled,
}

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutState.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the flow can make no further progress.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateCompleted || s == CheckoutStateCancelled
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
