package database

import (
	"testing"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "pizza", Password: "pw", Name: "pizza", SSLMode: "disable"}
	assert.Equal(t, "host=db user=pizza password=pw dbname=pizza port=5432 sslmode=disable", pg.DSN())

	pg.URL = "postgres://pizza:pw@db:5432/pizza"
	assert.Equal(t, "postgres://pizza:pw@db:5432/pizza", pg.DSN())
	assert.NotContains(t, pg.String(), "pw@")

	lite := DatabaseConfig{Driver: "SQLite", Path: "pizza.sqlite"}
	assert.Equal(t, "pizza.sqlite", lite.DSN())

	assert.Empty(t, (&DatabaseConfig{Driver: "mysql"}).DSN())
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, SeedCatalog(db))
	require.NoError(t, SeedCatalog(db))

	counts := map[models.IngredientKind]int64{}
	for _, kind := range models.IngredientKinds {
		var n int64
		require.NoError(t, db.Table(kind.Table()).Count(&n).Error)
		counts[kind] = n
	}
	assert.Equal(t, int64(5), counts[models.KindBase])
	assert.Equal(t, int64(5), counts[models.KindSauce])
	assert.Equal(t, int64(4), counts[models.KindCheese])
	assert.Equal(t, int64(18), counts[models.KindTopping])

	var varieties int64
	require.NoError(t, db.Model(&models.PizzaVariety{}).Count(&varieties).Error)
	assert.Equal(t, int64(3), varieties)

	var pesto models.Ingredient
	require.NoError(t, db.Table(models.KindSauce.Table()).Where("name = ?", "Pesto").First(&pesto).Error)
	assert.Equal(t, "2.00", pesto.Price.String())
	assert.True(t, pesto.IsActive)
}

func TestInactiveRowsKeepTheirFlag(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	retired := models.Ingredient{Name: "Anchovies", Price: models.MustMoney("1.50"), Category: "meats", Stock: 5, Threshold: 20}
	require.NoError(t, db.Table(models.KindTopping.Table()).Create(&retired).Error)
	var topping models.Ingredient
	require.NoError(t, db.Table(models.KindTopping.Table()).First(&topping, retired.ID).Error)
	assert.False(t, topping.IsActive)
	assert.False(t, topping.IsLowStock())

	variety := models.PizzaVariety{Name: "Retired Special", BasePrice: models.MustMoney("9.99")}
	require.NoError(t, db.Create(&variety).Error)
	var loaded models.PizzaVariety
	require.NoError(t, db.First(&loaded, variety.ID).Error)
	assert.False(t, loaded.IsActive)
}
