package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pocketplan/internal/config"
	"pocketplan/internal/logger"
	"pocketplan/internal/testutil"
)

const testPipelineKey = "pipeline-test-key"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

type testApp struct {
	Router *gin.Engine
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		Env:            "test",
		CORSOrigin:     "*",
		PipelineAPIKey: testPipelineKey,
		Location:       time.UTC,
	}
	return &testApp{Router: NewRouter(cfg, db)}
}

func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	return app.requestWithHeaders(method, path, body, map[string]string{"Authorization": bearer(token)})
}

func (app *testApp) requestWithHeaders(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseJSON(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	return errObj["code"].(string)
}

func (app *testApp) registerUser(t *testing.T, email string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","name":"Test User"}`, email)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

func (app *testApp) createTransaction(t *testing.T, token, body string) {
	t.Helper()
	rec := app.request(http.MethodPost, "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	app := setupApp(t)

	rec := app.request(http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthFlow_LoginRefreshAndProfile(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "flow@test.com")

	rec := app.request(http.MethodPost, "/api/v1/auth/login",
		`{"email":"Flow@Test.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	login := parseJSON(t, rec)
	refresh := login["refresh_token"].(string)

	rec = app.request(http.MethodGet, "/api/v1/profile", "", login["access_token"].(string))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "flow@test.com" {
		t.Errorf("expected normalized email, got %v", user["email"])
	}

	rec = app.request(http.MethodPost, "/api/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on refresh, got %d: %s", rec.Code, rec.Body.String())
	}

	// The old refresh token was rotated out.
	rec = app.request(http.MethodPost, "/api/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 reusing rotated token, got %d", rec.Code)
	}
}

func TestAuthFlow_LockoutAfterFailedLogins(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "lock@test.com")

	for i := 0; i < 5; i++ {
		rec := app.request(http.MethodPost, "/api/v1/auth/login",
			`{"email":"lock@test.com","password":"wrong-password"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := app.request(http.MethodPost, "/api/v1/auth/login",
		`{"email":"lock@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected 423, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "ACCOUNT_LOCKED" {
		t.Errorf("expected ACCOUNT_LOCKED, got %s", code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{
		"/api/v1/transactions",
		"/api/v1/budgets",
		"/api/v1/analytics/breakdown",
		"/api/v1/analytics/dashboard",
		"/api/v1/insights",
	} {
		rec := app.request(http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestBudgetAndAnalyticsFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budget@test.com")

	app.createTransaction(t, token, `{"type":"income","amount":300000,"category":"Salary","date":"2025-03-01"}`)
	app.createTransaction(t, token, `{"type":"expense","amount":12000,"category":"Food","date":"2025-03-03","payment_method":"card"}`)
	app.createTransaction(t, token, `{"type":"expense","amount":8000,"category":"food","date":"2025-03-03"}`)
	app.createTransaction(t, token, `{"type":"expense","amount":30000,"category":"Rent","date":"2025-03-15"}`)
	app.createTransaction(t, token, `{"type":"expense","amount":99999,"category":"food","date":"2025-04-01"}`)

	rec := app.request(http.MethodPut, "/api/v1/budgets",
		`{"category":"Food","amount":15000,"month":3,"year":2025}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating budget, got %d: %s", rec.Code, rec.Body.String())
	}

	// Setting the same key again overwrites the amount.
	rec = app.request(http.MethodPut, "/api/v1/budgets",
		`{"category":"food","amount":25000,"month":3,"year":2025}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating budget, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request(http.MethodGet, "/api/v1/budgets?month=3&year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if budgets := parseJSON(t, rec)["budgets"].([]interface{}); len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}

	rec = app.request(http.MethodGet, "/api/v1/analytics/breakdown?month=3&year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	breakdown := parseJSON(t, rec)["breakdown"].([]interface{})
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(breakdown))
	}
	first := breakdown[0].(map[string]interface{})
	if first["category"] != "rent" || first["amount"].(float64) != 30000 || first["percentage_of_total"].(float64) != 60 {
		t.Errorf("unexpected first entry %v", first)
	}

	rec = app.request(http.MethodGet, "/api/v1/analytics/utilization?month=3&year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	util := parseJSON(t, rec)["utilization"].([]interface{})
	if len(util) != 1 {
		t.Fatalf("expected 1 utilization row, got %d", len(util))
	}
	food := util[0].(map[string]interface{})
	if food["spent"].(float64) != 20000 || food["remaining"].(float64) != 5000 || food["percentage"].(float64) != 80 {
		t.Errorf("unexpected utilization %v", food)
	}
	if food["is_over_budget"].(bool) {
		t.Error("expected food to be under budget")
	}

	rec = app.request(http.MethodGet, "/api/v1/analytics/summary?month=3&year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	totals := parseJSON(t, rec)
	if totals["total_spent"].(float64) != 50000 || totals["total_income"].(float64) != 300000 || totals["total_budget"].(float64) != 25000 {
		t.Errorf("unexpected totals %v", totals)
	}

	rec = app.request(http.MethodGet, "/api/v1/analytics/daily?month=3&year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	days := parseJSON(t, rec)["days"].([]interface{})
	if len(days) != 3 {
		t.Fatalf("expected 3 active days, got %d", len(days))
	}
	third := days[1].(map[string]interface{})
	if third["day"].(float64) != 3 || third["expense"].(float64) != 20000 {
		t.Errorf("unexpected day 3 point %v", third)
	}

	rec = app.request(http.MethodGet, "/api/v1/analytics/monthly?year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	months := parseJSON(t, rec)["months"].([]interface{})
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	if april := months[3].(map[string]interface{}); april["expense"].(float64) != 99999 {
		t.Errorf("unexpected April point %v", april)
	}

	rec = app.request(http.MethodGet, "/api/v1/analytics/dashboard?month=3&year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	dashboard := parseJSON(t, rec)
	if income := dashboard["income_breakdown"].([]interface{}); len(income) != 1 {
		t.Errorf("expected 1 income category, got %d", len(income))
	}

	rec = app.request(http.MethodGet, "/api/v1/analytics/breakdown?month=13&year=2025", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid month, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_PERIOD" {
		t.Errorf("expected INVALID_PERIOD, got %s", code)
	}
}

func TestAnalyticsAreScopedToUser(t *testing.T) {
	app := setupApp(t)
	alice, _ := app.registerUser(t, "alice@test.com")
	bob, _ := app.registerUser(t, "bob@test.com")

	app.createTransaction(t, alice, `{"type":"expense","amount":5000,"category":"food","date":"2025-03-03"}`)

	rec := app.request(http.MethodGet, "/api/v1/analytics/breakdown?month=3&year=2025", "", bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if breakdown := parseJSON(t, rec)["breakdown"].([]interface{}); len(breakdown) != 0 {
		t.Errorf("expected empty breakdown for other user, got %d entries", len(breakdown))
	}
}

func TestInsightsFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "insights@test.com")

	// No date means today, inside the trailing window.
	app.createTransaction(t, token, `{"type":"expense","amount":60000,"category":"Transport"}`)

	rec := app.request(http.MethodGet, "/api/v1/insights", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)
	if report["available"] != true {
		t.Error("expected insights to be available")
	}
	list := report["insights"].([]interface{})
	if len(list) != 2 {
		t.Fatalf("expected transport warning and energy tip, got %d insights", len(list))
	}
	warning := list[0].(map[string]interface{})
	if warning["type"] != "warning" || warning["potential_savings"].(float64) != 5000 {
		t.Errorf("unexpected first insight %v", warning)
	}
	if list[1].(map[string]interface{})["category"] != "utilities" {
		t.Errorf("expected utilities opportunity last, got %v", list[1])
	}
}

func TestBenefitsFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "benefits@test.com")

	catalog := `{"benefits":[
		{"name":"Child Care Subsidy","category":"family","income_threshold":5000000},
		{"name":"Age Pension","category":"retirement","age_requirement":67},
		{"name":"Medicare","category":"health"}
	]}`

	rec := app.requestWithHeaders(http.MethodPut, "/api/v1/pipeline/benefits", catalog, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without API key, got %d", rec.Code)
	}

	rec = app.requestWithHeaders(http.MethodPut, "/api/v1/pipeline/benefits", catalog,
		map[string]string{"X-API-Key": testPipelineKey})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := parseJSON(t, rec)["benefits_upserted"].(float64); n != 3 {
		t.Errorf("expected 3 upserted, got %.0f", n)
	}

	rec = app.request(http.MethodGet, "/api/v1/benefits", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if list := parseJSON(t, rec)["benefits"].([]interface{}); len(list) != 3 {
		t.Errorf("expected 3 benefits, got %d", len(list))
	}

	rec = app.request(http.MethodPost, "/api/v1/benefits/check-eligibility", `{"income":4000000,"age":30}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["eligible"] != true {
		t.Error("expected eligible")
	}
	if matches := result["eligible_benefits"].([]interface{}); len(matches) != 2 {
		t.Errorf("expected 2 matching programs, got %d", len(matches))
	}

	rec = app.request(http.MethodPost, "/api/v1/benefits/check-eligibility", `{"income":4000000,"age":30}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}
