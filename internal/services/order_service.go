package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MinDeliveryAddressLength is counted in characters, not bytes
const MinDeliveryAddressLength = 10

// EventPublisher receives order events after they are committed
type EventPublisher interface {
	Publish(ev events.Event)
}

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	PizzaVarietyID *uint  `json:"pizzaVarietyId"`
	PizzaBaseID    *uint  `json:"pizzaBaseId"`
	SauceID        *uint  `json:"sauceId"`
	CheeseID       *uint  `json:"cheeseId"`
	Toppings       []uint `json:"toppings"`
	Quantity       *int   `json:"quantity"`
	ItemPrice      string `json:"itemPrice" example:"15.99"`
	IsCustom       bool   `json:"isCustom"`
}

// PlaceOrderRequest is the checkout payload
type PlaceOrderRequest struct {
	DeliveryAddress string           `json:"deliveryAddress" example:"221B Baker Street"`
	Items           []OrderItemInput `json:"items"`
	TotalAmount     string           `json:"totalAmount" example:"20.73"`
}

// OrderService persists orders and drives their lifecycle
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, totalAmount models.Money, deliveryAddress string) (*models.Order, error)
	CreateOrderItem(ctx context.Context, orderID string, item OrderItemInput, quantity int, itemPrice models.Money) (*models.OrderItem, error)
	CreateOrderItemTopping(ctx context.Context, orderItemID, toppingID uint) (*models.OrderItemTopping, error)
	PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status, changedBy string) (*models.Order, error)
	ConfirmPayment(ctx context.Context, orderID string, caller *models.User, paymentID string) (*models.Order, error)
	GetStatusHistory(ctx context.Context, orderID string, caller *models.User) ([]models.OrderStatusLog, error)
}

type orderService struct {
	db          *gorm.DB
	ingredients IngredientRepository
	policy      models.TransitionPolicy
	publisher   EventPublisher
}

// NewOrderService wires the order repository. A nil policy accepts every
// valid status; a nil publisher discards events.
func NewOrderService(db *gorm.DB, ingredients IngredientRepository, policy models.TransitionPolicy, publisher EventPublisher) OrderService {
	if policy == nil {
		policy = models.AnyTransition
	}
	return &orderService{db: db, ingredients: ingredients, policy: policy, publisher: publisher}
}

func (s *orderService) publish(t events.Type, order *models.Order) {
	if s.publisher != nil {
		s.publisher.Publish(events.NewOrderEvent(t, order))
	}
}

func validateAddress(address string) error {
	if utf8.RuneCountInString(address) < MinDeliveryAddressLength {
		return newValidationError("deliveryAddress", "must be at least %d characters", MinDeliveryAddressLength)
	}
	return nil
}

func (s *orderService) CreateOrder(ctx context.Context, userID string, totalAmount models.Money, deliveryAddress string) (*models.Order, error) {
	if err := validateAddress(deliveryAddress); err != nil {
		return nil, err
	}
	return createOrder(s.db.WithContext(ctx), userID, totalAmount, deliveryAddress)
}

func createOrder(tx *gorm.DB, userID string, totalAmount models.Money, deliveryAddress string) (*models.Order, error) {
	order := &models.Order{
		UserID:          userID,
		Status:          models.StatusReceived,
		TotalAmount:     totalAmount,
		DeliveryAddress: deliveryAddress,
		PaymentStatus:   models.PaymentPending,
	}
	if err := tx.Omit("User", "Items").Create(order).Error; err != nil {
		return nil, classify("create order", "User", userID, err)
	}
	entry := &models.OrderStatusLog{OrderID: order.ID, Status: order.Status, ChangedBy: userID}
	if err := tx.Create(entry).Error; err != nil {
		return nil, classify("create status log", "Order", order.ID, err)
	}
	return order, nil
}

func (s *orderService) CreateOrderItem(ctx context.Context, orderID string, item OrderItemInput, quantity int, itemPrice models.Money) (*models.OrderItem, error) {
	return createOrderItem(s.db.WithContext(ctx), orderID, item, quantity, itemPrice)
}

func createOrderItem(tx *gorm.DB, orderID string, in OrderItemInput, quantity int, itemPrice models.Money) (*models.OrderItem, error) {
	item := &models.OrderItem{
		OrderID:        orderID,
		PizzaVarietyID: in.PizzaVarietyID,
		PizzaBaseID:    in.PizzaBaseID,
		SauceID:        in.SauceID,
		CheeseID:       in.CheeseID,
		Quantity:       quantity,
		ItemPrice:      itemPrice,
		IsCustom:       in.IsCustom,
	}
	if err := tx.Omit("Toppings").Create(item).Error; err != nil {
		return nil, classify("create order item", "Order", orderID, err)
	}
	return item, nil
}

func (s *orderService) CreateOrderItemTopping(ctx context.Context, orderItemID, toppingID uint) (*models.OrderItemTopping, error) {
	return createOrderItemTopping(s.db.WithContext(ctx), orderItemID, toppingID)
}

func createOrderItemTopping(tx *gorm.DB, orderItemID, toppingID uint) (*models.OrderItemTopping, error) {
	row := &models.OrderItemTopping{OrderItemID: orderItemID, ToppingID: toppingID}
	if err := tx.Create(row).Error; err != nil {
		return nil, classify("create order item topping", models.KindTopping.Label(), toppingID, err)
	}
	return row, nil
}

type selection struct {
	kind models.IngredientKind
	id   uint
}

// selections lists every ingredient row a custom item consumes, one entry
// per topping id
func (in OrderItemInput) selections() []selection {
	out := []selection{
		{models.KindBase, *in.PizzaBaseID},
		{models.KindSauce, *in.SauceID},
		{models.KindCheese, *in.CheeseID},
	}
	for _, id := range in.Toppings {
		out = append(out, selection{models.KindTopping, id})
	}
	return out
}

type validatedItem struct {
	input    OrderItemInput
	quantity int
	price    models.Money
}

// validatePlacement checks the whole request before anything is written
func validatePlacement(req PlaceOrderRequest) (models.Money, []validatedItem, error) {
	if err := validateAddress(req.DeliveryAddress); err != nil {
		return models.Money{}, nil, err
	}
	if len(req.Items) == 0 {
		return models.Money{}, nil, newValidationError("items", "at least one item is required")
	}
	total, err := ParsePrice("totalAmount", req.TotalAmount)
	if err != nil {
		return models.Money{}, nil, err
	}

	items := make([]validatedItem, 0, len(req.Items))
	for i, in := range req.Items {
		field := fmt.Sprintf("items[%d]", i)

		qty := 1
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if qty < 1 {
			return models.Money{}, nil, newValidationError(field+".quantity", "must be at least 1")
		}
		price, err := ParsePrice(field+".itemPrice", in.ItemPrice)
		if err != nil {
			return models.Money{}, nil, err
		}

		if in.IsCustom {
			if in.PizzaVarietyID != nil {
				return models.Money{}, nil, newValidationError(field+".pizzaVarietyId", "must be empty for a custom pizza")
			}
			if in.PizzaBaseID == nil || in.SauceID == nil || in.CheeseID == nil {
				return models.Money{}, nil, newValidationError(field, "a custom pizza needs pizzaBaseId, sauceId and cheeseId")
			}
		} else {
			if in.PizzaVarietyID == nil {
				return models.Money{}, nil, newValidationError(field+".pizzaVarietyId", "is required unless isCustom is set")
			}
			if in.PizzaBaseID != nil || in.SauceID != nil || in.CheeseID != nil || len(in.Toppings) > 0 {
				return models.Money{}, nil, newValidationError(field, "a preset pizza cannot carry custom ingredients")
			}
		}
		items = append(items, validatedItem{input: in, quantity: qty, price: price})
	}
	return total, items, nil
}

// PlaceOrder writes the order, its items and toppings, the first status log
// row and every stock decrement in one transaction
func (s *orderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*models.Order, error) {
	total, items, err := validatePlacement(req)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stock := s.ingredients.WithTx(tx)

		order, err = createOrder(tx, userID, total, req.DeliveryAddress)
		if err != nil {
			return err
		}

		for _, it := range items {
			in := it.input
			if !in.IsCustom {
				found, err := findVarieties(tx, []uint{*in.PizzaVarietyID})
				if err != nil {
					return err
				}
				// retired presets stay readable on old orders but cannot be ordered
				if v, ok := found[*in.PizzaVarietyID]; !ok || !v.IsActive {
					return &NotFoundError{Resource: "Pizza variety", ID: *in.PizzaVarietyID}
				}
			}

			item, err := createOrderItem(tx, order.ID, in, it.quantity, it.price)
			if err != nil {
				return err
			}
			if !in.IsCustom {
				continue
			}

			for _, toppingID := range in.Toppings {
				if _, err := createOrderItemTopping(tx, item.ID, toppingID); err != nil {
					return err
				}
			}

			for _, sel := range in.selections() {
				if err := stock.AdjustStock(ctx, sel.kind, sel.id, -it.quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.WithFields(logrus.Fields{
			"user_id": userID,
			"items":   len(req.Items),
			"error":   err.Error(),
		}).Warn("Order placement rolled back")
		return nil, classify("place order", "Order", nil, err)
	}

	log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.TotalAmount.String(),
	}).Info("Order placed")
	s.publish(events.OrderCreated, order)
	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.withItems(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, classify("list user orders", "User", userID, err)
	}
	return s.hydrate(ctx, orders)
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.withItems(s.db.WithContext(ctx)).
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, classify("list orders", "Order", nil, err)
	}
	return s.hydrate(ctx, orders)
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := s.withItems(s.db.WithContext(ctx)).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, classify("get order", "Order", orderID, err)
	}
	hydrated, err := s.hydrate(ctx, []models.Order{order})
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

func (s *orderService) withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Toppings", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// hydrate resolves the ingredient and variety rows referenced by the items
// with one query per table
func (s *orderService) hydrate(ctx context.Context, orders []models.Order) ([]models.Order, error) {
	ids := map[models.IngredientKind][]uint{}
	var varietyIDs []uint
	for _, o := range orders {
		for _, it := range o.Items {
			if it.PizzaVarietyID != nil {
				varietyIDs = append(varietyIDs, *it.PizzaVarietyID)
			}
			if it.PizzaBaseID != nil {
				ids[models.KindBase] = append(ids[models.KindBase], *it.PizzaBaseID)
			}
			if it.SauceID != nil {
				ids[models.KindSauce] = append(ids[models.KindSauce], *it.SauceID)
			}
			if it.CheeseID != nil {
				ids[models.KindCheese] = append(ids[models.KindCheese], *it.CheeseID)
			}
			for _, t := range it.Toppings {
				ids[models.KindTopping] = append(ids[models.KindTopping], t.ToppingID)
			}
		}
	}

	rows := map[models.IngredientKind]map[uint]models.Ingredient{}
	for _, kind := range models.IngredientKinds {
		found, err := s.ingredients.FindByIDs(ctx, kind, ids[kind])
		if err != nil {
			return nil, err
		}
		rows[kind] = found
	}
	varieties, err := findVarieties(s.db.WithContext(ctx), varietyIDs)
	if err != nil {
		return nil, err
	}

	resolve := func(kind models.IngredientKind, id *uint) *models.Ingredient {
		if id == nil {
			return nil
		}
		if row, ok := rows[kind][*id]; ok {
			return &row
		}
		return nil
	}

	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
		for j := range orders[i].Items {
			it := &orders[i].Items[j]
			if it.PizzaVarietyID != nil {
				if v, ok := varieties[*it.PizzaVarietyID]; ok {
					it.PizzaVariety = &v
				}
			}
			it.PizzaBase = resolve(models.KindBase, it.PizzaBaseID)
			it.Sauce = resolve(models.KindSauce, it.SauceID)
			it.Cheese = resolve(models.KindCheese, it.CheeseID)
			if it.Toppings == nil {
				it.Toppings = []models.OrderItemTopping{}
			}
			for k := range it.Toppings {
				id := it.Toppings[k].ToppingID
				it.Toppings[k].Topping = resolve(models.KindTopping, &id)
			}
		}
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to status if the transition policy allows
// it and appends a status log row
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID, status, changedBy string) (*models.Order, error) {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, newValidationError("status", "must be one of received, kitchen, delivery, delivered")
	}

	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			return err
		}
		if !s.policy.CanTransition(order.Status, next) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, next)
		}
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		order.Status = next
		return tx.Create(&models.OrderStatusLog{OrderID: order.ID, Status: next, ChangedBy: changedBy}).Error
	})
	if err != nil {
		return nil, classify("update order status", "Order", orderID, err)
	}

	log.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"status":     next,
		"changed_by": changedBy,
	}).Info("Order status updated")
	s.publish(events.OrderStatusChanged, &order)
	return &order, nil
}

// ConfirmPayment marks the order paid. Delivery status is left untouched.
func (s *orderService) ConfirmPayment(ctx context.Context, orderID string, caller *models.User, paymentID string) (*models.Order, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, newValidationError("paymentId", "is required")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			return err
		}
		if !canAccess(caller, &order) {
			return ErrForbidden
		}
		return tx.Model(&order).Updates(map[string]interface{}{
			"payment_status": models.PaymentCompleted,
			"payment_id":     paymentID,
		}).Error
	})
	if err != nil {
		return nil, classify("confirm payment", "Order", orderID, err)
	}

	order.PaymentStatus = models.PaymentCompleted
	order.PaymentID = &paymentID
	log.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"payment_id": paymentID,
	}).Info("Payment confirmed")
	s.publish(events.OrderPaid, &order)
	return &order, nil
}

func (s *orderService) GetStatusHistory(ctx context.Context, orderID string, caller *models.User) ([]models.OrderStatusLog, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, classify("get order", "Order", orderID, err)
	}
	if !canAccess(caller, &order) {
		return nil, ErrForbidden
	}

	history := []models.OrderStatusLog{}
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&history).Error; err != nil {
		return nil, classify("list status history", "Order", orderID, err)
	}
	return history, nil
}

func canAccess(caller *models.User, order *models.Order) bool {
	return caller != nil && (caller.IsAdmin || caller.ID == order.UserID)
}
