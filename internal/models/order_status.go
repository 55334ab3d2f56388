package models

import "fmt"

// OrderStatus is the fulfillment stage of an order
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusKitchen   OrderStatus = "kitchen"
	StatusDelivery  OrderStatus = "delivery"
	StatusDelivered OrderStatus = "delivered"
)

// OrderStatuses is the fulfillment pipeline in order
var OrderStatuses = []OrderStatus{StatusReceived, StatusKitchen, StatusDelivery, StatusDelivered}

// ParseOrderStatus accepts exactly one of the four pipeline values
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid order status %q", s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	return s.index() >= 0
}

// IsTerminal is true once an order has been delivered
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered
}

// IsPending is true for every stage before delivery
func (s OrderStatus) IsPending() bool {
	return s.Valid() && !s.IsTerminal()
}

// Next returns the following stage, or false when s is terminal or invalid
func (s OrderStatus) Next() (OrderStatus, bool) {
	i := s.index()
	if i < 0 || i == len(OrderStatuses)-1 {
		return "", false
	}
	return OrderStatuses[i+1], true
}

func (s OrderStatus) index() int {
	for i, st := range OrderStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// PendingStatuses are the stages counted as open orders
func PendingStatuses() []OrderStatus {
	return OrderStatuses[:len(OrderStatuses)-1]
}

// TransitionPolicy decides whether an order may move between two stages
type TransitionPolicy interface {
	CanTransition(from, to OrderStatus) bool
}

// TransitionFunc adapts a function to TransitionPolicy
type TransitionFunc func(from, to OrderStatus) bool

func (f TransitionFunc) CanTransition(from, to OrderStatus) bool { return f(from, to) }

// AnyTransition accepts every valid target regardless of the current stage.
var AnyTransition TransitionPolicy = TransitionFunc(func(from, to OrderStatus) bool {
	return to.Valid()
})

// StrictTransitions only allows staying put or advancing exactly one stage.
var StrictTransitions TransitionPolicy = TransitionFunc(func(from, to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	next, ok := from.Next()
	return ok && next == to
})

// PaymentStatus tracks payment confirmation independently of fulfillment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)
