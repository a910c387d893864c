package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"returns-assistant-be/internal/dto"
	"returns-assistant-be/internal/pkg/logger"
	"returns-assistant-be/internal/pkg/serverutils"
	"returns-assistant-be/pkg/refund"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReturnsService struct {
	askReq    *dto.AskRequest
	searchReq *dto.SearchRequest
	refundReq *dto.RefundRequest
	auditReq  *dto.AuditQuery
	err       error
}

func (f *fakeReturnsService) Ask(_ context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	f.askReq = req
	return &dto.AskResponse{RequestId: "req-1", Intent: "rag_only", FinalAnswer: "ok."}, f.err
}

func (f *fakeReturnsService) Search(_ context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	f.searchReq = req
	return &dto.SearchResponse{Query: req.Query, Results: []dto.PolicyHitDTO{}}, f.err
}

func (f *fakeReturnsService) Refund(_ context.Context, req *dto.RefundRequest) (*refund.Result, error) {
	f.refundReq = req
	return &refund.Result{RefundAmount: 42, AppliedRules: []string{}, Notes: []string{}}, f.err
}

func (f *fakeReturnsService) GetPolicies(context.Context) ([]dto.PolicyResponse, error) {
	return []dto.PolicyResponse{{Id: "general_returns"}}, f.err
}

func (f *fakeReturnsService) GetAuditLog(_ context.Context, q *dto.AuditQuery) ([]logger.LogEntry, error) {
	f.auditReq = q
	return []logger.LogEntry{}, f.err
}

func newTestApp(svc *fakeReturnsService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	NewReturnsController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestAsk(t *testing.T) {
	svc := &fakeReturnsService{}
	app := newTestApp(svc)

	status, body := do(t, app, "POST", "/api/returns/ask", `{"query":"What's your return window for electronics?"}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "req-1", body["data"].(map[string]interface{})["request_id"])
	assert.Equal(t, "What's your return window for electronics?", svc.askReq.Query)
}

func TestAskValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty query", `{"query":""}`, "query is required"},
		{"malformed json", `{"query":`, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, newTestApp(&fakeReturnsService{}), "POST", "/api/returns/ask", tt.body)
			assert.Equal(t, 400, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestSearchTopKBounds(t *testing.T) {
	svc := &fakeReturnsService{}
	app := newTestApp(svc)

	status, _ := do(t, app, "POST", "/api/returns/search", `{"query":"restocking fee","top_k":5}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, 5, svc.searchReq.TopK)

	status, body := do(t, app, "POST", "/api/returns/search", `{"query":"restocking fee","top_k":11}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "top_k must be at most 10", body["message"])
}

func TestRefundRequiresEveryField(t *testing.T) {
	svc := &fakeReturnsService{}
	app := newTestApp(svc)

	status, body := do(t, app, "POST", "/api/returns/refund", `{"purchase_price":120,"days_since_delivery":0,"category":"apparel"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "opened is required", body["message"])
	assert.Nil(t, svc.refundReq)

	status, body = do(t, app, "POST", "/api/returns/refund", `{"purchase_price":120,"days_since_delivery":0,"opened":false,"category":"apparel"}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, 42.0, body["data"].(map[string]interface{})["refund_amount"])
	assert.Equal(t, 0, *svc.refundReq.DaysSinceDelivery)
}

func TestGetPoliciesServiceError(t *testing.T) {
	app := newTestApp(&fakeReturnsService{err: errors.New("store unavailable")})

	status, body := do(t, app, "GET", "/api/returns/policies", "")
	assert.Equal(t, 500, status)
	assert.Equal(t, "store unavailable", body["message"])
}

func TestGetAuditLogQuery(t *testing.T) {
	svc := &fakeReturnsService{}
	app := newTestApp(svc)

	status, _ := do(t, app, "GET", "/api/returns/audit?limit=5&offset=10", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, 5, svc.auditReq.Limit)
	assert.Equal(t, 10, svc.auditReq.Offset)

	status, _ = do(t, app, "GET", "/api/returns/audit?limit=500", "")
	assert.Equal(t, 400, status)
}
