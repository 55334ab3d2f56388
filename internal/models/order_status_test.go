package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{name: "received", input: "received", want: StatusReceived},
		{name: "kitchen", input: "kitchen", want: StatusKitchen},
		{name: "delivery", input: "delivery", want: StatusDelivery},
		{name: "delivered", input: "delivered", want: StatusDelivered},
		{name: "unknown value", input: "cooking", wantErr: true},
		{name: "case sensitive", input: "Kitchen", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatusNext(t *testing.T) {
	next, ok := StatusReceived.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusKitchen, next)

	next, ok = StatusDelivery.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusDelivered, next)

	_, ok = StatusDelivered.Next()
	assert.False(t, ok)
	assert.True(t, StatusDelivered.IsTerminal())
	assert.False(t, StatusDelivered.IsPending())
	assert.Equal(t, []OrderStatus{StatusReceived, StatusKitchen, StatusDelivery}, PendingStatuses())
}

func TestTransitionPolicies(t *testing.T) {
	// the permissive policy matches the backend contract: any valid value at any time
	assert.True(t, AnyTransition.CanTransition(StatusDelivered, StatusReceived))
	assert.True(t, AnyTransition.CanTransition(StatusReceived, StatusDelivered))
	assert.False(t, AnyTransition.CanTransition(StatusReceived, OrderStatus("lost")))

	assert.True(t, StrictTransitions.CanTransition(StatusReceived, StatusKitchen))
	assert.True(t, StrictTransitions.CanTransition(StatusKitchen, StatusKitchen))
	assert.False(t, StrictTransitions.CanTransition(StatusReceived, StatusDelivery))
	assert.False(t, StrictTransitions.CanTransition(StatusDelivered, StatusReceived))
}

func TestMoneyRendersTwoPlaces(t *testing.T) {
	m := MustMoney("12")
	assert.Equal(t, "12.00", m.String())

	b, err := json.Marshal(m.Add(MustMoney("2.99")))
	require.NoError(t, err)
	assert.Equal(t, `"14.99"`, string(b))

	var parsed Money
	require.NoError(t, json.Unmarshal([]byte(`"1.75"`), &parsed))
	assert.Equal(t, "1.75", parsed.String())
	assert.Equal(t, "5.25", parsed.Mul(3).String())
}

func TestIngredientKinds(t *testing.T) {
	k, err := ParseIngredientKind("topping")
	require.NoError(t, err)
	assert.Equal(t, "toppings", k.Table())
	assert.Equal(t, "Topping", k.Label())

	_, err = ParseIngredientKind("crust")
	assert.Error(t, err)

	k, ok := KindFromPath("bases")
	assert.True(t, ok)
	assert.Equal(t, KindBase, k)
	_, ok = KindFromPath("base")
	assert.False(t, ok)
}

func TestIngredientIsLowStock(t *testing.T) {
	assert.True(t, Ingredient{Stock: 20, Threshold: 20, IsActive: true}.IsLowStock())
	assert.True(t, Ingredient{Stock: -3, Threshold: 20, IsActive: true}.IsLowStock())
	assert.False(t, Ingredient{Stock: 21, Threshold: 20, IsActive: true}.IsLowStock())
	assert.False(t, Ingredient{Stock: 0, Threshold: 20, IsActive: false}.IsLowStock())
}
