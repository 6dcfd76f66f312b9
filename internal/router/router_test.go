package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"khatabook/internal/logger"
	"khatabook/internal/testutil"
	"khatabook/internal/validator"
)

type testApp struct {
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppIn(t, time.UTC)
}

func setupAppIn(t *testing.T, loc *time.Location) *testApp {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return &testApp{Router: New(db, Options{FrontendURL: "http://localhost:3000", ReportLocation: loc})}
}

func (a *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	rec := a.request("POST", "/api/v1/auth/register",
		fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

func (a *testApp) mustCreate(t *testing.T, token, path, body string) map[string]interface{} {
	t.Helper()
	rec := a.request("POST", path, body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST %s failed: %d %s", path, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestPublicRoutes(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}
	if parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}

	rec = app.request("GET", "/", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "running") {
		t.Errorf("unexpected banner: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/dashboard", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/no-such-thing", "", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "NOT_FOUND" {
		t.Errorf("expected 404 NOT_FOUND for unknown route, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_RegisterLoginProfileRefresh(t *testing.T) {
	app := setupApp(t)

	accessToken, _, userID := app.registerUser(t, "Auth@Test.com", "password123")
	if accessToken == "" || userID == "" {
		t.Fatal("expected token and user id from registration")
	}

	rec := app.request("POST", "/api/v1/auth/login", `{"email":"auth@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	login := parseJSON(t, rec)

	rec = app.request("GET", "/api/v1/profile", "", login["access_token"].(string))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected normalized email, got %v", user["email"])
	}

	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, login["refresh_token"].(string)), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["access_token"].(string) == "" {
		t.Error("expected new access token")
	}
}

func TestAuthFlow_Lockout(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "lockout@test.com", "password123")

	for i := 0; i < 5; i++ {
		rec := app.request("POST", "/api/v1/auth/login", `{"email":"lockout@test.com","password":"wrong"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := app.request("POST", "/api/v1/auth/login", `{"email":"lockout@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected 423 while locked, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "ACCOUNT_LOCKED" {
		t.Errorf("expected ACCOUNT_LOCKED, got %s", code)
	}
}

func TestAuthFlow_GoogleNotConfigured(t *testing.T) {
	app := setupApp(t)

	rec := app.request("POST", "/api/v1/auth/google", `{"credential":"abc"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_ID_TOKEN" {
		t.Errorf("expected INVALID_ID_TOKEN, got %s", code)
	}
}

func TestLedgerFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "ledger@test.com", "password123")

	account := app.mustCreate(t, token, "/api/v1/accounts", `{"name":"Wallet","icon":"👛","opening_balance":"50"}`)["account"].(map[string]interface{})
	walletID := account["id"].(string)

	app.mustCreate(t, token, "/api/v1/transactions",
		`{"date":"2024-03-01","type":"receive","amount":"1000","category":"Salary","credit_account":"bank1"}`)
	app.mustCreate(t, token, "/api/v1/transactions",
		`{"date":"2024-03-02","type":"pay","amount":300,"category":"Bills","debit_account":"bank1"}`)
	app.mustCreate(t, token, "/api/v1/transactions",
		`{"date":"2024-03-03","type":"transfer","amount":"200","debit_account":"bank1","credit_account":"cash"}`)
	app.mustCreate(t, token, "/api/v1/transactions",
		`{"date":"2024-03-04","type":"Pay","amount":"20","category":"Food","debit_account":"Cash Balance"}`)

	rec := app.request("GET", "/api/v1/networth", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("networth failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := parseJSON(t, rec)["net_worth"]; got != "730" {
		t.Errorf("expected net worth 730, got %v", got)
	}

	rec = app.request("GET", "/api/v1/accounts/balances", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("balances failed: %d %s", rec.Code, rec.Body.String())
	}
	balances := map[string]string{}
	for _, raw := range parseJSON(t, rec)["accounts"].([]interface{}) {
		row := raw.(map[string]interface{})
		balances[row["id"].(string)] = row["balance"].(string)
	}
	want := map[string]string{"bank1": "500", "cash": "180", walletID: "50"}
	for id, balance := range want {
		if balances[id] != balance {
			t.Errorf("expected %s balance %s, got %s", id, balance, balances[id])
		}
	}

	rec = app.request("GET", "/api/v1/reports/expenses?from_date=2024-03-01&to_date=2024-03-31", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expenses failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total"] != "320" {
		t.Errorf("expected expense total 320, got %v", summary["total"])
	}

	rec = app.request("POST", "/api/v1/reports", `{"account_groups":["banks"],"types":["pay"]}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("report failed: %d %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)["report"].(map[string]interface{})
	if report["count"].(float64) != 1 {
		t.Errorf("expected 1 bank payment, got %v", report["count"])
	}

	rec = app.request("GET", "/api/v1/transactions?page=1&page_size=2&type=pay", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	page := parseJSON(t, rec)
	if page["total_items"].(float64) != 2 {
		t.Errorf("expected 2 payments, got %v", page["total_items"])
	}

	rec = app.request("DELETE", "/api/v1/accounts/cash", "", token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 deleting a default account, got %d", rec.Code)
	}
}

func TestCustomRangeWestOfUTC(t *testing.T) {
	app := setupAppIn(t, time.FixedZone("EST", -5*3600))
	token, _, _ := app.registerUser(t, "west@test.com", "password123")

	app.mustCreate(t, token, "/api/v1/transactions",
		`{"date":"2024-03-01","type":"pay","amount":"10","category":"Food","debit_account":"cash"}`)
	app.mustCreate(t, token, "/api/v1/transactions",
		`{"date":"2024-03-02","type":"pay","amount":"25","category":"Food","debit_account":"cash"}`)
	app.mustCreate(t, token, "/api/v1/transactions",
		`{"date":"2024-03-03","type":"pay","amount":"40","category":"Food","debit_account":"cash"}`)

	rec := app.request("GET", "/api/v1/reports/expenses?from_date=2024-03-02&to_date=2024-03-02", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expenses failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total"] != "25" {
		t.Errorf("expected only the 2024-03-02 expense, got total %v", summary["total"])
	}
}

func TestBulkImportAndIsolation(t *testing.T) {
	app := setupApp(t)
	alice, _, _ := app.registerUser(t, "alice@test.com", "password123")
	bob, _, _ := app.registerUser(t, "bob@test.com", "password123")

	result := app.mustCreate(t, alice, "/api/v1/transactions/bulk", `{"transactions":[
		{"date":"2024-01-05","type":"pay","amount":"12.50","debit_account":"cash"},
		{"date":"garbage","type":"receive","amount":"abc","credit_account":"bank1"}
	]}`)
	if result["created"].(float64) != 2 {
		t.Fatalf("expected 2 created, got %v", result["created"])
	}

	rec := app.request("GET", "/api/v1/transactions", "", alice)
	items := parseJSON(t, rec)["transactions"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 transactions for alice, got %d", len(items))
	}
	aliceTxnID := items[0].(map[string]interface{})["id"].(string)

	rec = app.request("GET", "/api/v1/transactions", "", bob)
	bobItems, _ := parseJSON(t, rec)["transactions"].([]interface{})
	if len(bobItems) != 0 {
		t.Errorf("expected bob to see no transactions, got %d", len(bobItems))
	}

	rec = app.request("DELETE", "/api/v1/transactions/"+aliceTxnID, "", bob)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting another user's transaction, got %d", rec.Code)
	}

	rec = app.request("DELETE", "/api/v1/transactions/"+aliceTxnID, "", alice)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 deleting own transaction, got %d", rec.Code)
	}
}

func TestCategoryAndTemplateFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "settings@test.com", "password123")

	app.mustCreate(t, token, "/api/v1/categories/pay", `{"name":"Pets"}`)

	rec := app.request("POST", "/api/v1/categories/pay", `{"name":"Pets"}`, token)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate label, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/categories", "", token)
	categories := parseJSON(t, rec)["categories"].(map[string]interface{})
	pay := categories["pay"].([]interface{})
	if pay[len(pay)-1] != "Pets" {
		t.Errorf("expected Pets appended, got %v", pay)
	}

	tpl := app.mustCreate(t, token, "/api/v1/reports/templates",
		`{"name":"Food this month","criteria":{"date_range":{"preset":"thisMonth"},"categories":["Food"]}}`)["template"].(map[string]interface{})

	rec = app.request("GET", "/api/v1/reports/templates", "", token)
	if got := parseJSON(t, rec)["templates"].([]interface{}); len(got) != 1 {
		t.Fatalf("expected 1 template, got %d", len(got))
	}

	rec = app.request("DELETE", "/api/v1/reports/templates/"+tpl["id"].(string), "", token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 deleting template, got %d", rec.Code)
	}
}
