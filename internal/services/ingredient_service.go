package services

import (
	"context"
	"fmt"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"gorm.io/gorm"
)

// IngredientRepository is the single data access path for the four
// ingredient tables. Every method takes the kind that selects the table.
type IngredientRepository interface {
	List(ctx context.Context, kind models.IngredientKind, activeOnly bool) ([]models.Ingredient, error)
	Get(ctx context.Context, kind models.IngredientKind, id uint) (*models.Ingredient, error)
	FindByIDs(ctx context.Context, kind models.IngredientKind, ids []uint) (map[uint]models.Ingredient, error)
	AdjustStock(ctx context.Context, kind models.IngredientKind, id uint, delta int) error
	LowStock(ctx context.Context, kind models.IngredientKind) ([]models.Ingredient, error)
	WithTx(tx *gorm.DB) IngredientRepository
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) WithTx(tx *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: tx}
}

func (r *ingredientRepository) table(ctx context.Context, kind models.IngredientKind) (*gorm.DB, error) {
	if kind.Table() == "" {
		return nil, newValidationError("type", "invalid ingredient type %q", kind)
	}
	return r.db.WithContext(ctx).Table(kind.Table()), nil
}

func (r *ingredientRepository) List(ctx context.Context, kind models.IngredientKind, activeOnly bool) ([]models.Ingredient, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if kind == models.KindTopping {
		q = q.Order("category").Order("name")
	} else {
		q = q.Order("name")
	}

	var rows []models.Ingredient
	if err := q.Find(&rows).Error; err != nil {
		return nil, classify("list "+kind.Table(), kind.Label(), nil, err)
	}
	return rows, nil
}

func (r *ingredientRepository) Get(ctx context.Context, kind models.IngredientKind, id uint) (*models.Ingredient, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var row models.Ingredient
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, classify("get "+kind.Table(), kind.Label(), id, err)
	}
	return &row, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, kind models.IngredientKind, ids []uint) (map[uint]models.Ingredient, error) {
	out := make(map[uint]models.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var rows []models.Ingredient
	if err := q.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, classify("find "+kind.Table(), kind.Label(), ids, err)
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// AdjustStock applies stock = stock + delta in a single statement. Stock is
// signed and may go below zero.
func (r *ingredientRepository) AdjustStock(ctx context.Context, kind models.IngredientKind, id uint, delta int) error {
	q, err := r.table(ctx, kind)
	if err != nil {
		return err
	}
	result := q.Where("id = ?", id).UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return classify("adjust "+kind.Table()+" stock", kind.Label(), id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: kind.Label(), ID: id}
	}
	return nil
}

func (r *ingredientRepository) LowStock(ctx context.Context, kind models.IngredientKind) ([]models.Ingredient, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var rows []models.Ingredient
	if err := q.Where("is_active = ? AND stock <= threshold", true).Order("id").Find(&rows).Error; err != nil {
		return nil, classify("low stock "+kind.Table(), kind.Label(), nil, err)
	}
	return rows, nil
}

// CatalogService serves the public menu
type CatalogService interface {
	ListIngredients(ctx context.Context, kind models.IngredientKind) ([]models.Ingredient, error)
	GetActiveIngredient(ctx context.Context, kind models.IngredientKind, id uint) (*models.Ingredient, error)
	ListVarieties(ctx context.Context) ([]models.PizzaVariety, error)
	FindVarietiesByIDs(ctx context.Context, ids []uint) (map[uint]models.PizzaVariety, error)
}

type catalogService struct {
	db          *gorm.DB
	ingredients IngredientRepository
}

func NewCatalogService(db *gorm.DB, ingredients IngredientRepository) CatalogService {
	return &catalogService{db: db, ingredients: ingredients}
}

// ListIngredients returns the active rows of one kind, sorted by name.
// Toppings are grouped by category first.
func (s *catalogService) ListIngredients(ctx context.Context, kind models.IngredientKind) ([]models.Ingredient, error) {
	return s.ingredients.List(ctx, kind, true)
}

func (s *catalogService) GetActiveIngredient(ctx context.Context, kind models.IngredientKind, id uint) (*models.Ingredient, error) {
	row, err := s.ingredients.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !row.IsActive {
		return nil, &NotFoundError{Resource: kind.Label(), ID: id}
	}
	return row, nil
}

func (s *catalogService) ListVarieties(ctx context.Context) ([]models.PizzaVariety, error) {
	var varieties []models.PizzaVariety
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&varieties).Error; err != nil {
		return nil, classify("list pizza varieties", "Pizza variety", nil, err)
	}
	return varieties, nil
}

func (s *catalogService) FindVarietiesByIDs(ctx context.Context, ids []uint) (map[uint]models.PizzaVariety, error) {
	return findVarieties(s.db.WithContext(ctx), ids)
}

func findVarieties(db *gorm.DB, ids []uint) (map[uint]models.PizzaVariety, error) {
	out := make(map[uint]models.PizzaVariety, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.PizzaVariety
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, classify("find pizza varieties", "Pizza variety", fmt.Sprint(ids), err)
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}
