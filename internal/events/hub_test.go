package events

import (
	"testing"
	"time"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishReachesOwnerAndGlobalFeed(t *testing.T) {
	hub := NewHub()
	mine, cancelMine := hub.Subscribe([]string{TopicUser("alice")}, 4)
	defer cancelMine()
	other, cancelOther := hub.Subscribe([]string{TopicUser("bob")}, 4)
	defer cancelOther()
	all, cancelAll := hub.Subscribe([]string{TopicOrders()}, 4)
	defer cancelAll()

	order := &models.Order{ID: "o-1", UserID: "alice", Status: models.StatusKitchen, PaymentStatus: models.PaymentPending}
	hub.Publish(NewOrderEvent(OrderStatusChanged, order))

	ev := receive(t, mine)
	assert.Equal(t, OrderStatusChanged, ev.Type)
	assert.Equal(t, models.StatusKitchen, ev.Status)
	assert.Equal(t, "o-1", receive(t, all).OrderID)

	select {
	case ev := <-other:
		t.Fatalf("bob received %+v", ev)
	default:
	}
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe([]string{TopicOrders()}, 1)
	defer cancel()

	order := &models.Order{ID: "o-2", UserID: "carol"}
	hub.Publish(NewOrderEvent(OrderCreated, order))
	hub.Publish(NewOrderEvent(OrderPaid, order))

	assert.Equal(t, OrderCreated, receive(t, ch).Type)
	select {
	case ev := <-ch:
		t.Fatalf("expected dropped event, got %+v", ev)
	default:
	}
}

func TestCancelUnsubscribesAndCloses(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe([]string{TopicUser("dave"), TopicOrders()}, 0)
	require.Equal(t, 1, hub.Subscribers(TopicOrders()))

	cancel()
	assert.Equal(t, 0, hub.Subscribers(TopicOrders()))
	assert.Equal(t, 0, hub.Subscribers(TopicUser("dave")))

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic
	hub.Publish(NewOrderEvent(OrderCreated, &models.Order{ID: "o-3", UserID: "dave"}))
}
