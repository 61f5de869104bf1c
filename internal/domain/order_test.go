package domain

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusValid, OrderStatusUsed, true},
		{OrderStatusValid, OrderStatusCancelled, true},
		{OrderStatusValid, OrderStatusValid, false},
		{OrderStatusUsed, OrderStatusValid, false},
		{OrderStatusUsed, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusUsed, false},
		{OrderStatusCancelled, OrderStatusValid, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []OrderStatus{OrderStatusValid, OrderStatusUsed, OrderStatusCancelled} {
		if !s.IsValid() {
			t.Errorf("expected %q to be a known status", s)
		}
	}
	if OrderStatus("refunded").IsValid() {
		t.Errorf("expected unknown status to be rejected")
	}
}
