package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tablehouse/analytics-svc/internal/domain"
	"tablehouse/analytics-svc/internal/mocks"
	"tablehouse/analytics-svc/internal/service"
	"tablehouse/auth"
	"tablehouse/money"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticIdentities map[int]*auth.Identity

func (s staticIdentities) FindIdentity(ctx context.Context, id int) (*auth.Identity, error) {
	if identity, ok := s[id]; ok {
		return identity, nil
	}
	return nil, auth.ErrNotFound
}

type testEnv struct {
	router     *mux.Router
	dashboard  *mocks.DashboardServiceInterface
	adminToken string
	userToken  string
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	tokens := auth.NewTokens([]byte("analytics-secret"), time.Hour)
	gate := auth.NewGate(tokens, staticIdentities{
		1: {ID: 1, Name: "Admin", Email: "admin@example.com", Role: auth.RoleAdmin, IsActive: true},
		2: {ID: 2, Name: "Guest", Email: "guest@example.com", Role: auth.RoleUser, IsActive: true},
	})
	adminToken, _, err := tokens.Issue(1, auth.RoleAdmin)
	require.NoError(t, err)
	userToken, _, err := tokens.Issue(2, auth.RoleUser)
	require.NoError(t, err)

	env := &testEnv{
		dashboard:  mocks.NewDashboardServiceInterface(t),
		adminToken: adminToken,
		userToken:  userToken,
	}
	env.router = mux.NewRouter()
	NewHandler(env.dashboard, gate).RegisterRoutes(env.router)
	return env
}

func (e *testEnv) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandler_healthCheck(t *testing.T) {
	env := setupTestRouter(t)

	recorder := env.get("/health", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"service":"analytics-svc"`)
}

func TestHandler_requiresAdmin(t *testing.T) {
	env := setupTestRouter(t)
	paths := []string{
		"/api/orders/stats/dashboard",
		"/api/analytics/summary",
		"/api/analytics/recent",
		"/api/analytics/status-breakdown",
		"/api/analytics/top-items",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, env.get(path, "").Code)
			assert.Equal(t, http.StatusForbidden, env.get(path, env.userToken).Code)
		})
	}
}

func TestHandler_getDashboard(t *testing.T) {
	env := setupTestRouter(t)
	env.dashboard.On("Dashboard", mock.Anything).Return(&domain.Dashboard{
		TodayOrders:     2,
		TodayRevenue:    money.Cents(4857),
		StatusBreakdown: map[string]int{"pending": 2},
		RecentOrders:    []domain.OrderSummary{},
	}, nil).Once()

	recorder := env.get("/api/orders/stats/dashboard", env.adminToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"today_orders":2`)
	assert.Contains(t, recorder.Body.String(), `"today_revenue":48.57`)
	assert.Contains(t, recorder.Body.String(), `"recent_orders":[]`)
}

func TestHandler_getDashboardFailure(t *testing.T) {
	env := setupTestRouter(t)
	env.dashboard.On("Dashboard", mock.Anything).Return(nil, errors.New("db down")).Once()

	recorder := env.get("/api/orders/stats/dashboard", env.adminToken)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "db down")
}

func TestHandler_getSummary(t *testing.T) {
	type testCase struct {
		name         string
		query        string
		prepareMocks func(svc *mocks.DashboardServiceInterface)
		expectedCode int
	}

	tests := []testCase{
		{
			name:  "defaults to today",
			query: "",
			prepareMocks: func(svc *mocks.DashboardServiceInterface) {
				svc.On("Summary", mock.Anything, domain.WindowToday).
					Return(&domain.WindowStats{Window: domain.WindowToday, Orders: 1, Revenue: 999}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "month",
			query: "?window=month",
			prepareMocks: func(svc *mocks.DashboardServiceInterface) {
				svc.On("Summary", mock.Anything, domain.WindowMonth).
					Return(&domain.WindowStats{Window: domain.WindowMonth}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "unknown window",
			query: "?window=week",
			prepareMocks: func(svc *mocks.DashboardServiceInterface) {
				svc.On("Summary", mock.Anything, domain.Window("week")).
					Return(nil, fmt.Errorf("%w: unknown window", service.ErrValidation)).Once()
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := setupTestRouter(t)
			testCase.prepareMocks(env.dashboard)

			recorder := env.get("/api/analytics/summary"+testCase.query, env.adminToken)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
		})
	}
}

func TestHandler_getRecent(t *testing.T) {
	env := setupTestRouter(t)
	env.dashboard.On("RecentOrders", mock.Anything, 0).Return([]domain.OrderSummary{{OrderNumber: "ORD_20240305_001"}}, nil).Once()
	env.dashboard.On("RecentOrders", mock.Anything, 12).Return([]domain.OrderSummary{}, nil).Once()

	recorder := env.get("/api/analytics/recent", env.adminToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ORD_20240305_001")

	recorder = env.get("/api/analytics/recent?limit=12", env.adminToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())

	recorder = env.get("/api/analytics/recent?limit=many", env.adminToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_getStatusBreakdown(t *testing.T) {
	env := setupTestRouter(t)
	env.dashboard.On("StatusBreakdown", mock.Anything).Return(map[string]int{
		"pending": 1, "confirmed": 0, "preparing": 0, "ready": 0, "delivered": 4, "cancelled": 0,
	}, nil).Once()

	recorder := env.get("/api/analytics/status-breakdown", env.adminToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"pending":1,"confirmed":0,"preparing":0,"ready":0,"delivered":4,"cancelled":0}`, recorder.Body.String())
}

func TestHandler_getTopItems(t *testing.T) {
	env := setupTestRouter(t)
	env.dashboard.On("TopItems", mock.Anything, domain.WindowAll, 3).
		Return([]domain.ItemSales{{MenuItemID: 1, Name: "Margherita", Quantity: 9, Revenue: 11691}}, nil).Once()

	recorder := env.get("/api/analytics/top-items?window=all&limit=3", env.adminToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"revenue":116.91`)
}
