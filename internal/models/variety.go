package models

// PizzaVariety is a preset, non-customizable pizza
type PizzaVariety struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	BasePrice   Money  `json:"basePrice" gorm:"type:decimal(10,2);not null" swaggertype:"string" example:"12.99"`
	IsActive    bool   `json:"isActive" gorm:"not null"`
}

func (PizzaVariety) TableName() string {
	return "pizza_varieties"
}
