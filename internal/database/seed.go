package database

import (
	"fmt"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"gorm.io/gorm"
)

func ingredient(name, description, price string, stock, threshold int) models.Ingredient {
	return models.Ingredient{
		Name:        name,
		Description: description,
		Price:       models.MustMoney(price),
		Stock:       stock,
		Threshold:   threshold,
		IsActive:    true,
	}
}

func topping(category, name, description, price string, stock, threshold int) models.Ingredient {
	t := ingredient(name, description, price, stock, threshold)
	t.Category = category
	return t
}

var sampleCatalog = map[models.IngredientKind][]models.Ingredient{
	models.KindBase: {
		ingredient("Thin Crust", "Crispy & Light", "0.00", 50, 20),
		ingredient("Thick Crust", "Hearty & Filling", "2.00", 45, 20),
		ingredient("Cheese Stuffed", "Cheese in Crust", "4.00", 30, 15),
		ingredient("Gluten Free", "Healthy Option", "3.00", 25, 15),
		ingredient("Whole Wheat", "Fiber Rich", "2.00", 35, 20),
	},
	models.KindSauce: {
		ingredient("Marinara", "Classic Tomato", "0.00", 60, 25),
		ingredient("White Sauce", "Creamy Garlic", "1.00", 40, 20),
		ingredient("BBQ Sauce", "Sweet & Tangy", "1.00", 35, 20),
		ingredient("Pesto", "Basil & Herbs", "2.00", 25, 15),
		ingredient("Buffalo", "Spicy Kick", "1.00", 30, 15),
	},
	models.KindCheese: {
		ingredient("Mozzarella", "Classic Choice", "0.00", 80, 30),
		ingredient("Cheddar", "Sharp & Bold", "1.00", 50, 25),
		ingredient("Parmesan", "Rich & Nutty", "2.00", 35, 20),
		ingredient("Vegan Cheese", "Plant Based", "3.00", 25, 15),
	},
	models.KindTopping: {
		topping("vegetables", "Mushrooms", "Fresh Button Mushrooms", "1.00", 40, 20),
		topping("vegetables", "Bell Peppers", "Colorful Sweet Peppers", "1.00", 45, 20),
		topping("vegetables", "Red Onions", "Sweet Red Onions", "1.00", 50, 25),
		topping("vegetables", "Black Olives", "Mediterranean Olives", "1.00", 35, 20),
		topping("vegetables", "Fresh Tomatoes", "Vine Ripened Tomatoes", "1.00", 30, 15),
		topping("meats", "Pepperoni", "Classic Spicy Pepperoni", "2.00", 60, 25),
		topping("meats", "Italian Sausage", "Seasoned Italian Sausage", "2.00", 40, 20),
		topping("meats", "Ham", "Premium Deli Ham", "2.00", 35, 20),
		topping("meats", "Bacon", "Crispy Bacon Bits", "2.00", 30, 15),
		topping("meats", "Grilled Chicken", "Marinated Grilled Chicken", "3.00", 25, 15),
		topping("premium", "Pineapple", "Sweet Tropical Pineapple", "1.00", 25, 15),
		topping("premium", "Artichokes", "Marinated Artichoke Hearts", "2.00", 20, 10),
		topping("premium", "Sun-dried Tomatoes", "Intense Flavor Tomatoes", "2.00", 15, 10),
		topping("premium", "Roasted Garlic", "Sweet Roasted Garlic", "1.00", 30, 15),
		topping("herbs", "Fresh Basil", "Aromatic Fresh Basil", "0.00", 100, 20),
		topping("herbs", "Oregano", "Dried Mediterranean Oregano", "0.00", 100, 20),
		topping("herbs", "Extra Cheese", "Double the Cheese", "2.00", 50, 25),
		topping("herbs", "Red Pepper Flakes", "Spicy Red Pepper", "0.00", 100, 20),
	},
}

var sampleVarieties = []models.PizzaVariety{
	{
		Name:        "Classic Margherita",
		Description: "Fresh mozzarella, basil, and tomato sauce on crispy thin crust",
		ImageURL:    "https://images.unsplash.com/photo-1574071318508-1cdbab80d002?auto=format&fit=crop&w=800&h=600",
		BasePrice:   models.MustMoney("12.99"),
		IsActive:    true,
	},
	{
		Name:        "Pepperoni Supreme",
		Description: "Premium pepperoni with extra cheese on our signature crust",
		ImageURL:    "https://images.unsplash.com/photo-1628840042765-356cda07504e?auto=format&fit=crop&w=800&h=600",
		BasePrice:   models.MustMoney("15.99"),
		IsActive:    true,
	},
	{
		Name:        "Veggie Supreme",
		Description: "Fresh vegetables, mushrooms, and peppers with herb seasoning",
		ImageURL:    "https://images.unsplash.com/photo-1593560708920-61dd98c46a4e?auto=format&fit=crop&w=800&h=600",
		BasePrice:   models.MustMoney("14.99"),
		IsActive:    true,
	},
}

// SeedCatalog fills an empty catalog with the sample menu. It does nothing
// once any pizza base exists.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Table(models.KindBase.Table()).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Catalog already seeded with initial data")
		return nil
	}

	log.Info("Catalog is empty, seeding initial data")
	return db.Transaction(func(tx *gorm.DB) error {
		for _, kind := range models.IngredientKinds {
			rows := append([]models.Ingredient(nil), sampleCatalog[kind]...)
			if err := tx.Table(kind.Table()).Create(&rows).Error; err != nil {
				return fmt.Errorf("seeding %s: %w", kind.Table(), err)
			}
		}
		varieties := append([]models.PizzaVariety(nil), sampleVarieties...)
		if err := tx.Create(&varieties).Error; err != nil {
			return fmt.Errorf("seeding pizza varieties: %w", err)
		}
		log.Info("Catalog seeded successfully")
		return nil
	})
}
