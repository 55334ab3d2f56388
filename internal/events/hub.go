package events

import (
	"sync"
	"time"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Type names an order event on the stream
type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status"
	OrderPaid          Type = "order.paid"
)

// Event is pushed to subscribers when an order changes
type Event struct {
	Type          Type                 `json:"type"`
	OrderID       string               `json:"orderId"`
	UserID        string               `json:"userId"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	At            time.Time            `json:"at"`
}

// NewOrderEvent snapshots the order fields carried by every event
func NewOrderEvent(t Type, order *models.Order) Event {
	return Event{
		Type:          t,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		At:            time.Now().UTC(),
	}
}

// Hub fans events out to topic subscribers. Sends never block; a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{} // topic -> set(ch)
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[chan Event]struct{}{}}
}

// Subscribe registers a buffered channel on the topics. The returned
// cancel func unregisters and closes the channel; call it exactly once.
func (h *Hub) Subscribe(topics []string, buf int) (<-chan Event, func()) {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan Event, buf)

	h.mu.Lock()
	for _, t := range topics {
		if h.subs[t] == nil {
			h.subs[t] = map[chan Event]struct{}{}
		}
		h.subs[t][ch] = struct{}{}
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		for _, t := range topics {
			if set, ok := h.subs[t]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, t)
				}
			}
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Broadcast delivers ev to every subscriber of topic
func (h *Hub) Broadcast(topic string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[topic] {
		select {
		case ch <- ev:
		default:
			log.WithFields(logrus.Fields{
				"topic":    topic,
				"order_id": ev.OrderID,
				"type":     ev.Type,
			}).Warn("Dropping event for slow subscriber")
		}
	}
}

// Publish sends an order event to its owner and to the global order feed
func (h *Hub) Publish(ev Event) {
	h.Broadcast(TopicUser(ev.UserID), ev)
	h.Broadcast(TopicOrders(), ev)
}

// Subscribers counts the channels registered on topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

func TopicUser(userID string) string { return "user:" + userID }
func TopicOrders() string            { return "orders:global" }
