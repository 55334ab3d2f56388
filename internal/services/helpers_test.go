package services

import (
	"testing"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/database"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	return db
}

func addIngredient(t *testing.T, db *gorm.DB, kind models.IngredientKind, name, price string, stock, threshold int) models.Ingredient {
	t.Helper()
	row := models.Ingredient{
		Name:      name,
		Price:     models.MustMoney(price),
		Stock:     stock,
		Threshold: threshold,
		IsActive:  true,
	}
	if kind == models.KindTopping {
		row.Category = "vegetables"
	}
	require.NoError(t, db.Table(kind.Table()).Create(&row).Error)
	return row
}

func deactivate(t *testing.T, db *gorm.DB, kind models.IngredientKind, id uint) {
	t.Helper()
	require.NoError(t, db.Table(kind.Table()).Where("id = ?", id).Update("is_active", false).Error)
}

func stockOf(t *testing.T, db *gorm.DB, kind models.IngredientKind, id uint) int {
	t.Helper()
	var row models.Ingredient
	require.NoError(t, db.Table(kind.Table()).Where("id = ?", id).First(&row).Error)
	return row.Stock
}

func addUser(t *testing.T, db *gorm.DB, id string, admin bool) *models.User {
	t.Helper()
	email := id + "@pizza.test"
	user := &models.User{ID: id, Email: &email, FirstName: id}
	require.NoError(t, db.Create(user).Error)
	if admin {
		require.NoError(t, db.Model(user).Update("is_admin", true).Error)
	}
	return user
}

// seedMenu creates one base, sauce and cheese (ids 1) and two toppings (ids 1, 2)
func seedMenu(t *testing.T, db *gorm.DB) {
	t.Helper()
	addIngredient(t, db, models.KindBase, "Thin Crust", "0.00", 50, 20)
	addIngredient(t, db, models.KindSauce, "Marinara", "1.00", 60, 25)
	addIngredient(t, db, models.KindCheese, "Mozzarella", "0.50", 80, 30)
	addIngredient(t, db, models.KindTopping, "Mushrooms", "1.00", 40, 20)
	addIngredient(t, db, models.KindTopping, "Olives", "1.25", 35, 20)
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }

func customItem(price string, qty int, toppings ...uint) OrderItemInput {
	return OrderItemInput{
		PizzaBaseID: uintPtr(1),
		SauceID:     uintPtr(1),
		CheeseID:    uintPtr(1),
		Toppings:    toppings,
		Quantity:    intPtr(qty),
		ItemPrice:   price,
		IsCustom:    true,
	}
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.events = append(p.events, string(ev.Type)+":"+string(ev.Status))
}
