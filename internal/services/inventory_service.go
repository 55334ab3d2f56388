package services

import (
	"context"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/sirupsen/logrus"
)

// InventoryService adjusts stock and reports rows that need restocking
type InventoryService interface {
	UpdateIngredientStock(ctx context.Context, ingredientType string, id uint, delta int) (*models.Ingredient, error)
	GetLowStockItems(ctx context.Context) ([]models.LowStockItem, error)
}

type inventoryService struct {
	ingredients IngredientRepository
}

func NewInventoryService(ingredients IngredientRepository) InventoryService {
	return &inventoryService{ingredients: ingredients}
}

// UpdateIngredientStock applies a signed delta to one row and returns it
// as stored afterwards
func (s *inventoryService) UpdateIngredientStock(ctx context.Context, ingredientType string, id uint, delta int) (*models.Ingredient, error) {
	kind, err := models.ParseIngredientKind(ingredientType)
	if err != nil {
		return nil, newValidationError("type", "must be one of base, sauce, cheese, topping")
	}
	if err := s.ingredients.AdjustStock(ctx, kind, id, delta); err != nil {
		return nil, err
	}

	row, err := s.ingredients.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"type":  kind,
		"id":    id,
		"delta": delta,
		"stock": row.Stock,
	}).Info("Ingredient stock updated")
	return row, nil
}

// GetLowStockItems scans every ingredient table in catalog order
func (s *inventoryService) GetLowStockItems(ctx context.Context) ([]models.LowStockItem, error) {
	items := []models.LowStockItem{}
	for _, kind := range models.IngredientKinds {
		rows, err := s.ingredients.LowStock(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			items = append(items, models.LowStockItem{Type: kind.Label(), Kind: kind, Item: row})
		}
	}
	return items, nil
}
