package controllers

import (
	"net/http"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/services"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog services.CatalogService
	pricing *services.PricingCalculator
}

func NewCatalogController(catalog services.CatalogService, pricing *services.PricingCalculator) *CatalogController {
	return &CatalogController{catalog: catalog, pricing: pricing}
}

// ListIngredients godoc
// @Summary List ingredients
// @Description Get the active ingredients of one category sorted by name. Toppings are grouped by category first.
// @Tags Catalog
// @Produce json
// @Param kind path string true "Ingredient category" Enums(bases, sauces, cheeses, toppings)
// @Success 200 {array} models.Ingredient
// @Failure 404 {object} models.APIError "Unknown category"
// @Failure 500 {object} models.APIError
// @Router /api/ingredients/{kind} [get]
func (cc *CatalogController) ListIngredients(c *gin.Context) {
	kind, ok := models.KindFromPath(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "Unknown ingredient category"))
		return
	}

	rows, err := cc.catalog.ListIngredients(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, rows)
}

// ListVarieties godoc
// @Summary List pizza varieties
// @Description Get the active preset pizzas
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.PizzaVariety
// @Failure 500 {object} models.APIError
// @Router /api/pizza-varieties [get]
func (cc *CatalogController) ListVarieties(c *gin.Context) {
	varieties, err := cc.catalog.ListVarieties(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if varieties == nil {
		varieties = []models.PizzaVariety{}
	}
	c.JSON(http.StatusOK, varieties)
}

// Quote godoc
// @Summary Price a custom pizza
// @Description Price the selected ingredients server side, including delivery fee and tax
// @Tags Catalog
// @Accept json
// @Produce json
// @Param selection body services.QuoteRequest true "Selected ingredient ids"
// @Success 200 {object} services.Quote
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError "Unknown or inactive ingredient"
// @Router /api/pricing/quote [post]
func (cc *CatalogController) Quote(c *gin.Context) {
	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := cc.pricing.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
