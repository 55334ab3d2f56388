package router

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/auth"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/database"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret-32-characters!"

type testEnv struct {
	db     *gorm.DB
	hub    *events.Hub
	router *gin.Engine
}

func newEnv(t *testing.T, policy models.TransitionPolicy) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory()
	require.NoError(t, err)

	for _, row := range []struct {
		kind  models.IngredientKind
		name  string
		price string
		cat   string
		stock int
	}{
		{models.KindBase, "Thin Crust", "0.00", "", 50},
		{models.KindSauce, "Marinara", "1.00", "", 60},
		{models.KindCheese, "Mozzarella", "0.50", "", 80},
		{models.KindTopping, "Olives", "1.25", "vegetables", 35},
		{models.KindTopping, "Bacon", "2.00", "meats", 10},
	} {
		ing := models.Ingredient{Name: row.name, Price: models.MustMoney(row.price), Category: row.cat, Stock: row.stock, Threshold: 20, IsActive: true}
		require.NoError(t, db.Table(row.kind.Table()).Create(&ing).Error)
	}

	for _, u := range []struct {
		id    string
		admin bool
	}{{"cust-1", false}, {"cust-2", false}, {"admin-1", true}} {
		email := u.id + "@pizza.test"
		user := &models.User{ID: u.id, Email: &email}
		require.NoError(t, db.Create(user).Error)
		if u.admin {
			require.NoError(t, db.Model(user).Update("is_admin", true).Error)
		}
	}

	hub := events.NewHub()
	return &testEnv{
		db:  db,
		hub: hub,
		router: New(db, Options{
			JWTSecret:   testSecret,
			TokenTTL:    time.Hour,
			Transitions: policy,
			Hub:         hub,
		}),
	}
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	now := time.Now()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"iss": auth.Issuer,
		"aud": "test-client",
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func customOrder(address string) gin.H {
	return gin.H{
		"deliveryAddress": address,
		"totalAmount":     "21.49",
		"items": []gin.H{{
			"isCustom":    true,
			"pizzaBaseId": 1,
			"sauceId":     1,
			"cheeseId":    1,
			"toppings":    []uint{1, 2},
			"quantity":    1,
			"itemPrice":   "16.75",
		}},
	}
}

func (e *testEnv) placeOrder(t *testing.T, userID string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/orders", userID, customOrder("42 Wallaby Way, Sydney"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		OrderID string `json:"orderId"`
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.OrderID)
	assert.Equal(t, "Order placed successfully", resp.Message)
	return resp.OrderID
}

func (e *testEnv) stock(t *testing.T, kind models.IngredientKind, id uint) int {
	t.Helper()
	var row models.Ingredient
	require.NoError(t, e.db.Table(kind.Table()).First(&row, id).Error)
	return row.Stock
}

func (e *testEnv) status(t *testing.T, orderID string) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, e.db.First(&order, "id = ?", orderID).Error)
	return order
}

func TestHealth(t *testing.T) {
	env := newEnv(t, nil)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCatalogRoutes(t *testing.T) {
	env := newEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/ingredients/toppings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var toppings []models.Ingredient
	decode(t, w, &toppings)
	require.Len(t, toppings, 2)
	// meats sort before vegetables
	assert.Equal(t, "Bacon", toppings[0].Name)
	assert.Equal(t, "2.00", toppings[0].Price.String())

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/ingredients/widgets", "", nil).Code)

	w = env.do(t, http.MethodGet, "/api/pizza-varieties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestQuote(t *testing.T) {
	env := newEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/pricing/quote", "", gin.H{
		"pizzaBaseId": 1, "sauceId": 1, "cheeseId": 1, "toppings": []uint{1, 2}, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quote map[string]interface{}
	decode(t, w, &quote)
	assert.Equal(t, "16.75", quote["itemPrice"])
	assert.Equal(t, "38.24", quote["total"])

	w = env.do(t, http.MethodPost, "/api/pricing/quote", "", gin.H{"toppings": []uint{99}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newEnv(t, nil)

	for _, path := range []string{"/api/orders/user", "/api/auth/user", "/api/admin/orders"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"), path)
	}
	w := env.do(t, http.MethodPost, "/api/orders", "", customOrder("42 Wallaby Way, Sydney"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUser(t *testing.T) {
	env := newEnv(t, nil)
	w := env.do(t, http.MethodGet, "/api/auth/user", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	decode(t, w, &user)
	assert.Equal(t, "admin-1", user.ID)
	assert.True(t, user.IsAdmin)
}

func TestPlaceOrderOverHTTP(t *testing.T) {
	env := newEnv(t, nil)

	orderID := env.placeOrder(t, "cust-1")

	assert.Equal(t, 49, env.stock(t, models.KindBase, 1))
	assert.Equal(t, 59, env.stock(t, models.KindSauce, 1))
	assert.Equal(t, 79, env.stock(t, models.KindCheese, 1))
	assert.Equal(t, 34, env.stock(t, models.KindTopping, 1))
	assert.Equal(t, 9, env.stock(t, models.KindTopping, 2))

	w := env.do(t, http.MethodGet, "/api/orders/user", "cust-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
	assert.Equal(t, models.StatusReceived, orders[0].Status)
	require.Len(t, orders[0].Items, 1)
	item := orders[0].Items[0]
	require.NotNil(t, item.PizzaBase)
	assert.Equal(t, "Thin Crust", item.PizzaBase.Name)
	require.Len(t, item.Toppings, 2)
	require.NotNil(t, item.Toppings[0].Topping)

	w = env.do(t, http.MethodGet, "/api/orders/user", "cust-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestPlaceOrderValidation(t *testing.T) {
	env := newEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/orders", "cust-1", customOrder("123456789"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var apiErr models.APIError
	decode(t, w, &apiErr)
	assert.Equal(t, models.ErrValidationFailed, apiErr.Code)
	assert.Equal(t, "deliveryAddress", apiErr.Details["field"])

	order := customOrder("42 Wallaby Way, Sydney")
	order["items"].([]gin.H)[0]["toppings"] = []uint{1, 77}
	w = env.do(t, http.MethodPost, "/api/orders", "cust-1", order)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 50, env.stock(t, models.KindBase, 1))

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNonAdminCannotUpdateStatus(t *testing.T) {
	env := newEnv(t, nil)
	orderID := env.placeOrder(t, "cust-1")

	w := env.do(t, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", "cust-1", gin.H{"status": "kitchen"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.StatusReceived, env.status(t, orderID).Status)

	for _, path := range []string{"/api/admin/orders", "/api/admin/stats", "/api/admin/inventory/low-stock", "/api/admin/analytics/popular"} {
		assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, "cust-1", nil).Code, path)
	}
}

func TestAdminUpdatesStatus(t *testing.T) {
	env := newEnv(t, nil)
	orderID := env.placeOrder(t, "cust-1")

	w := env.do(t, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", "admin-1", gin.H{"status": "kitchen"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusKitchen, env.status(t, orderID).Status)

	// Free-form by default
	w = env.do(t, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", "admin-1", gin.H{"status": "received"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", "admin-1", gin.H{"status": "cooking"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/admin/orders/missing/status", "admin-1", gin.H{"status": "kitchen"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/orders/"+orderID+"/history", "cust-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.OrderStatusLog
	decode(t, w, &history)
	require.Len(t, history, 3)
	assert.Equal(t, models.StatusKitchen, history[1].Status)
	assert.Equal(t, "admin-1", history[1].ChangedBy)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/orders/"+orderID+"/history", "cust-2", nil).Code)

	w = env.do(t, http.MethodGet, "/api/admin/orders", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].User)
	assert.Equal(t, "cust-1", orders[0].User.ID)
}

func TestStrictTransitions(t *testing.T) {
	env := newEnv(t, models.StrictTransitions)
	orderID := env.placeOrder(t, "cust-1")

	w := env.do(t, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", "admin-1", gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.StatusReceived, env.status(t, orderID).Status)

	w = env.do(t, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", "admin-1", gin.H{"status": "kitchen"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPaymentConfirmation(t *testing.T) {
	env := newEnv(t, nil)
	orderID := env.placeOrder(t, "cust-1")
	path := "/api/orders/" + orderID + "/payment"

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, path, "cust-2", gin.H{"paymentId": "pay_1"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, path, "cust-1", gin.H{}).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/orders/missing/payment", "cust-1", gin.H{"paymentId": "pay_1"}).Code)

	w := env.do(t, http.MethodPost, path, "cust-1", gin.H{"paymentId": "pay_1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	order := env.status(t, orderID)
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, "pay_1", *order.PaymentID)
	assert.Equal(t, models.StatusReceived, order.Status)

	w = env.do(t, http.MethodGet, "/api/admin/stats", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalOrders":1,"pendingOrders":1,"todayRevenue":"21.49"}`, w.Body.String())
}

func TestInventoryAdmin(t *testing.T) {
	env := newEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/admin/inventory/low-stock", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var low []models.LowStockItem
	decode(t, w, &low)
	require.Len(t, low, 1)
	assert.Equal(t, "Topping", low[0].Type)
	assert.Equal(t, "Bacon", low[0].Item.Name)

	w = env.do(t, http.MethodPost, "/api/admin/inventory/update-stock", "admin-1", gin.H{"type": "gravy", "id": 1, "quantity": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/inventory/update-stock", "admin-1", gin.H{"type": "topping", "id": 99, "quantity": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/inventory/update-stock", "admin-1", gin.H{"type": "topping", "id": 2, "quantity": 25})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 35, env.stock(t, models.KindTopping, 2))

	w = env.do(t, http.MethodGet, "/api/admin/inventory/low-stock", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpdateStockAcceptsNumericStrings(t *testing.T) {
	env := newEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/admin/inventory/update-stock", "admin-1", gin.H{"type": "topping", "id": "2", "quantity": "25"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 35, env.stock(t, models.KindTopping, 2))

	w = env.do(t, http.MethodPost, "/api/admin/inventory/update-stock", "admin-1", gin.H{"type": "topping", "id": "2", "quantity": "-5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 30, env.stock(t, models.KindTopping, 2))

	tests := []struct {
		name string
		body gin.H
	}{
		{"not a number", gin.H{"type": "topping", "id": "2", "quantity": "lots"}},
		{"zero id", gin.H{"type": "topping", "id": "0", "quantity": "5"}},
		{"negative id", gin.H{"type": "topping", "id": -2, "quantity": 5}},
		{"missing quantity", gin.H{"type": "topping", "id": "2"}},
		{"fractional", gin.H{"type": "topping", "id": "2", "quantity": "2.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/admin/inventory/update-stock", "admin-1", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 30, env.stock(t, models.KindTopping, 2))
}

func TestPopularItems(t *testing.T) {
	env := newEnv(t, nil)
	env.placeOrder(t, "cust-1")
	env.placeOrder(t, "cust-2")

	w := env.do(t, http.MethodGet, "/api/admin/analytics/popular", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.PopularItem
	decode(t, w, &items)
	require.Len(t, items, 2)
	assert.EqualValues(t, 2, items[0].OrderCount)
}

func TestClientCredentialsEndToEnd(t *testing.T) {
	env := newEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/clients", "cust-1", gin.H{"name": "kitchen-display"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}
	decode(t, w, &created)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {created.ClientID},
		"client_secret": {created.ClientSecret},
	}
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var token struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &token)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"cust-1"`)

	w = env.do(t, http.MethodGet, "/api/clients", "cust-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ClientID)
	assert.NotContains(t, w.Body.String(), created.ClientSecret)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/clients/"+created.ClientID, "cust-2", nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/clients/"+created.ClientID, "cust-1", nil).Code)
}

func TestTokenRejectsOtherGrantTypes(t *testing.T) {
	env := newEnv(t, nil)

	for _, grant := range []string{"password", "refresh_token", "authorization_code", ""} {
		t.Run("grant "+grant, func(t *testing.T) {
			form := url.Values{
				"grant_type":    {grant},
				"client_id":     {"any"},
				"client_secret": {"any"},
				"username":      {"a"},
				"password":      {"b"},
				"refresh_token": {"r"},
			}
			req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body models.OAuth2Error
			decode(t, w, &body)
			assert.Equal(t, "unsupported_grant_type", body.Error)
		})
	}
}

func TestOrderEventStream(t *testing.T) {
	env := newEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/orders/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "cust-1"))

	// Headers are only flushed with the first event
	responses := make(chan *http.Response, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			close(responses)
			return
		}
		responses <- resp
	}()

	require.Eventually(t, func() bool {
		return env.hub.Subscribers(events.TopicUser("cust-1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	orderID := env.placeOrder(t, "cust-1")

	resp, ok := <-responses
	require.True(t, ok, "stream request failed")
	defer resp.Body.Close()
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"))

	scanner := bufio.NewScanner(resp.Body)
	var eventLine, idLine string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "id:"):
			idLine = line
		case strings.HasPrefix(line, "event:"):
			eventLine = line
		}
		if eventLine != "" && idLine != "" {
			break
		}
	}
	assert.Equal(t, "event:"+string(events.OrderCreated), eventLine)
	assert.Equal(t, "id:"+orderID, idLine)
}
