package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"investportal-backend/internal/application/auth"
	"investportal-backend/internal/config"
	"investportal-backend/internal/domain"
	"investportal-backend/internal/infrastructure/database"
	"investportal-backend/internal/middleware"
	"investportal-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-secret"

type harness struct {
	app   *fiber.App
	rdb   *redis.Client
	fund  domain.Investment
	user  uuid.UUID
	admin uuid.UUID
}

func newHarness(t *testing.T) harness {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	investor := domain.User{Fullname: "Ada Investor", Email: "ada@example.com", Role: constants.Investor}
	admin := domain.User{Fullname: "Root Admin", Email: "root@example.com", Role: constants.Admin}
	fund := domain.Investment{Name: "World Index", Price: decimal.NewFromInt(50), AssetClass: "equity"}
	require.NoError(t, db.Create(&investor).Error)
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&fund).Error)

	cfg := &config.Config{Env: "test", JWTSecret: secret, DisplayCurrency: "USD", HealthAdminKey: "k"}
	return harness{app: New(cfg, db, rdb), rdb: rdb, fund: fund, user: investor.UserID, admin: admin.UserID}
}

func (h harness) call(t *testing.T, userID uuid.UUID, role, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		tok, _, err := auth.JWT{Secret: []byte(secret)}.Sign(userID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestFullLifecycle(t *testing.T) {
	h := newHarness(t)
	userPath := "/api/v1/users/" + h.user.String()

	code, out := h.call(t, h.user, constants.Investor, "POST", userPath+"/requests", fiber.Map{
		"investmentId": h.fund.InvestmentID.String(),
		"requestType":  "assign",
		"amount":       1000,
	})
	require.Equal(t, fiber.StatusCreated, code, out)
	reqID := out["data"].(map[string]interface{})["request_id"].(string)

	code, out = h.call(t, h.admin, constants.Admin, "GET", "/api/v1/requests?status=Pending", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, out["data"].([]interface{}), 1)

	code, _ = h.call(t, h.admin, constants.Admin, "PATCH", "/api/v1/admin/requests/"+reqID+"/approve", nil)
	require.Equal(t, fiber.StatusOK, code)

	code, out = h.call(t, h.user, constants.Investor, "GET", userPath+"/investments", nil)
	require.Equal(t, fiber.StatusOK, code)
	holdings := out["data"].([]interface{})
	require.Len(t, holdings, 1)
	units := holdings[0].(map[string]interface{})["units"].(string)
	assert.True(t, decimal.RequireFromString(units).Equal(decimal.NewFromInt(20)))

	code, out = h.call(t, h.user, constants.Investor, "DELETE", userPath+"/requests/"+reqID, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "Request not found or not editable", out["error"])
}

func TestAuthGuards(t *testing.T) {
	h := newHarness(t)

	code, out := h.call(t, uuid.Nil, "", "GET", "/api/v1/requests", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Missing bearer token", out["error"])

	code, _ = h.call(t, h.user, constants.Investor, "GET", "/api/v1/requests", nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = h.call(t, h.user, constants.Investor, "GET", "/api/v1/users/"+h.admin.String()+"/requests", nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	investorReqs := "/api/v1/users/" + h.user.String() + "/requests/" + uuid.NewString()
	code, _ = h.call(t, h.admin, constants.Admin, "PUT", investorReqs, fiber.Map{"requestType": "assign", "amount": 5})
	assert.Equal(t, fiber.StatusForbidden, code)
	code, _ = h.call(t, h.admin, constants.Admin, "DELETE", investorReqs, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = h.call(t, h.user, constants.Investor, "POST", "/api/v1/admin/holdings/revalue", nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, out = h.call(t, h.admin, constants.Admin, "POST", "/api/v1/admin/holdings/revalue", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(0), out["data"].(map[string]interface{})["updated"])
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	h.call(t, h.user, constants.Investor, "GET", "/api/v1/users/"+h.user.String()+"/requests", nil)
	n, err := h.rdb.Get(context.Background(), middleware.KeyReqTotal).Int()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	code, out := h.call(t, uuid.Nil, "", "GET", "/health/json", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", out["status"])

	resp, err := h.app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "investportal_http_requests_total")
}

func TestTraceHeader(t *testing.T) {
	h := newHarness(t)
	resp, err := h.app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get("X-Trace-Id"))
	assert.NoError(t, err)
}
