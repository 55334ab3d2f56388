package services

import (
	"context"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/shopspring/decimal"
)

// Fixed pricing constants
var (
	BasePizzaPrice = models.MustMoney("12.00")
	DeliveryFee    = models.MustMoney("2.99")
	Tax            = models.MustMoney("1.75")
)

// PricingCalculator derives line and order totals in fixed-point decimal.
// Only Quote touches the catalog.
type PricingCalculator struct {
	catalog CatalogService
}

func NewPricingCalculator(catalog CatalogService) *PricingCalculator {
	return &PricingCalculator{catalog: catalog}
}

// ParsePrice parses a decimal price string. Non-numeric and negative values
// are rejected with a ValidationError.
func ParsePrice(field, s string) (models.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return models.Money{}, newValidationError(field, "must be a decimal amount, got %q", s)
	}
	if d.IsNegative() {
		return models.Money{}, newValidationError(field, "must not be negative")
	}
	return models.NewMoney(d), nil
}

// LinePrice is BasePizzaPrice plus every selected ingredient. Nil selections
// contribute nothing.
func (p *PricingCalculator) LinePrice(base, sauce, cheese *models.Ingredient, toppings []models.Ingredient) models.Money {
	total := BasePizzaPrice
	for _, ing := range []*models.Ingredient{base, sauce, cheese} {
		if ing != nil {
			total = total.Add(ing.Price)
		}
	}
	for _, t := range toppings {
		total = total.Add(t.Price)
	}
	return total
}

// OrderTotal sums the lines and adds the delivery fee and tax
func (p *PricingCalculator) OrderTotal(lines ...models.Money) models.Money {
	total := models.NewMoney(decimal.Zero)
	for _, l := range lines {
		total = total.Add(l)
	}
	return total.Add(DeliveryFee).Add(Tax)
}

// QuoteRequest selects ingredients by id for a custom pizza
type QuoteRequest struct {
	PizzaBaseID *uint  `json:"pizzaBaseId"`
	SauceID     *uint  `json:"sauceId"`
	CheeseID    *uint  `json:"cheeseId"`
	Toppings    []uint `json:"toppings"`
	Quantity    int    `json:"quantity"`
}

// Quote is the server side price of a custom pizza
type Quote struct {
	ItemPrice   models.Money `json:"itemPrice" swaggertype:"string" example:"15.00"`
	Quantity    int          `json:"quantity"`
	DeliveryFee models.Money `json:"deliveryFee" swaggertype:"string" example:"2.99"`
	Tax         models.Money `json:"tax" swaggertype:"string" example:"1.75"`
	Total       models.Money `json:"total" swaggertype:"string" example:"19.74"`
}

// Quote resolves the selected ingredients and prices one line of req.Quantity
// pizzas. Unknown or inactive ids are NotFound.
func (p *PricingCalculator) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, newValidationError("quantity", "must be at least 1")
	}

	lookup := func(kind models.IngredientKind, id *uint) (*models.Ingredient, error) {
		if id == nil {
			return nil, nil
		}
		return p.catalog.GetActiveIngredient(ctx, kind, *id)
	}

	base, err := lookup(models.KindBase, req.PizzaBaseID)
	if err != nil {
		return nil, err
	}
	sauce, err := lookup(models.KindSauce, req.SauceID)
	if err != nil {
		return nil, err
	}
	cheese, err := lookup(models.KindCheese, req.CheeseID)
	if err != nil {
		return nil, err
	}
	toppings := make([]models.Ingredient, 0, len(req.Toppings))
	for _, id := range req.Toppings {
		t, err := lookup(models.KindTopping, &id)
		if err != nil {
			return nil, err
		}
		toppings = append(toppings, *t)
	}

	line := p.LinePrice(base, sauce, cheese, toppings)
	return &Quote{
		ItemPrice:   line,
		Quantity:    qty,
		DeliveryFee: DeliveryFee,
		Tax:         Tax,
		Total:       p.OrderTotal(line.Mul(int64(qty))),
	}, nil
}
