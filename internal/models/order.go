package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is a checked-out basket. Orders are never deleted.
type Order struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string        `json:"userId" gorm:"index;not null"`
	User            *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Status          OrderStatus   `json:"status" gorm:"size:50;default:'received'"`
	TotalAmount     Money         `json:"totalAmount" gorm:"type:decimal(10,2);not null" swaggertype:"string" example:"20.74"`
	DeliveryAddress string        `json:"deliveryAddress" gorm:"not null"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"size:50;default:'pending'"`
	PaymentID       *string       `json:"paymentId"`
	Items           []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns the opaque order token
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OrderItem is one line of an order. A line is either a preset variety
// (IsCustom=false) or a custom build of base, sauce, cheese and toppings.
type OrderItem struct {
	ID             uint               `json:"id" gorm:"primaryKey"`
	OrderID        string             `json:"orderId" gorm:"index;not null;type:varchar(36)"`
	PizzaVarietyID *uint              `json:"pizzaVarietyId"`
	PizzaBaseID    *uint              `json:"pizzaBaseId"`
	SauceID        *uint              `json:"sauceId"`
	CheeseID       *uint              `json:"cheeseId"`
	Quantity       int                `json:"quantity" gorm:"default:1"`
	ItemPrice      Money              `json:"itemPrice" gorm:"type:decimal(10,2);not null" swaggertype:"string" example:"15.99"`
	IsCustom       bool               `json:"isCustom"`
	Toppings       []OrderItemTopping `json:"toppings" gorm:"foreignKey:OrderItemID"`

	// Resolved on read
	PizzaVariety *PizzaVariety `json:"pizzaVariety,omitempty" gorm:"-"`
	PizzaBase    *Ingredient   `json:"pizzaBase,omitempty" gorm:"-"`
	Sauce        *Ingredient   `json:"sauce,omitempty" gorm:"-"`
	Cheese       *Ingredient   `json:"cheese,omitempty" gorm:"-"`
}

// OrderItemTopping joins an order item to a selected topping
type OrderItemTopping struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	OrderItemID uint        `json:"orderItemId" gorm:"index;not null"`
	ToppingID   uint        `json:"toppingId" gorm:"index;not null"`
	Topping     *Ingredient `json:"topping,omitempty" gorm:"-"`
}

// OrderStatusLog records every status an order has been put in
type OrderStatusLog struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   string      `json:"orderId" gorm:"index;not null;type:varchar(36)"`
	Status    OrderStatus `json:"status" gorm:"size:50;not null"`
	ChangedBy string      `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt" gorm:"autoCreateTime"`
}

// OrderStats is the admin dashboard summary
type OrderStats struct {
	TotalOrders   int64 `json:"totalOrders"`
	PendingOrders int64 `json:"pendingOrders"`
	TodayRevenue  Money `json:"todayRevenue" swaggertype:"string" example:"41.48"`
}

// PopularItem is a topping with the number of order items it was selected in
type PopularItem struct {
	Name       string `json:"name"`
	OrderCount int64  `json:"orderCount"`
}
