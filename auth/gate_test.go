package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type identityStoreMock struct {
	mock.Mock
}

func (m *identityStoreMock) FindIdentity(ctx context.Context, id int) (*Identity, error) {
	args := m.Called(ctx, id)
	if identity, ok := args.Get(0).(*Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

var testSecret = []byte("test-secret")

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	signed, expiresAt, err := tokens.Issue(42, RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	userID, claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokens_ParseFailures(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	valid, _, err := tokens.Issue(7, RoleUser)
	require.NoError(t, err)

	expired, _, err := NewTokens(testSecret, time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(7, RoleUser)
	require.NoError(t, err)

	foreign, _, err := NewTokens([]byte("other-secret"), time.Hour).Issue(7, RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "tampered", token: valid[:strings.LastIndex(valid, ".")] + foreign[strings.LastIndex(foreign, "."):]},
		{name: "garbage", token: "not-a-token"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, _, err := tokens.Parse(testCase.token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestGate_Verify(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	token, _, err := tokens.Issue(5, RoleAdmin)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name          string
		prepareMocks  func(store *identityStoreMock)
		expectedRole  string
		expectedError error
	}{
		{
			name: "active admin",
			prepareMocks: func(store *identityStoreMock) {
				store.On("FindIdentity", ctx, 5).Return(&Identity{ID: 5, Role: RoleAdmin, IsActive: true}, nil).Once()
			},
			expectedRole: RoleAdmin,
		},
		{
			name: "role is read from storage",
			prepareMocks: func(store *identityStoreMock) {
				store.On("FindIdentity", ctx, 5).Return(&Identity{ID: 5, Role: RoleUser, IsActive: true}, nil).Once()
			},
			expectedRole: RoleUser,
		},
		{
			name: "deactivated after issuance",
			prepareMocks: func(store *identityStoreMock) {
				store.On("FindIdentity", ctx, 5).Return(&Identity{ID: 5, Role: RoleAdmin, IsActive: false}, nil).Once()
			},
			expectedError: ErrDeactivated,
		},
		{
			name: "deleted user",
			prepareMocks: func(store *identityStoreMock) {
				store.On("FindIdentity", ctx, 5).Return(nil, ErrNotFound).Once()
			},
			expectedError: ErrInvalidCredential,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := new(identityStoreMock)
			testCase.prepareMocks(store)
			gate := NewGate(tokens, store)

			identity, err := gate.Verify(ctx, token)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.Nil(t, identity)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testCase.expectedRole, identity.Role)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestGate_RequireRole(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	token, _, err := tokens.Issue(9, RoleAdmin)
	require.NoError(t, err)
	ctx := context.Background()

	store := new(identityStoreMock)
	// demoted since the token was issued
	store.On("FindIdentity", ctx, 9).Return(&Identity{ID: 9, Role: RoleUser, IsActive: true}, nil)
	gate := NewGate(tokens, store)

	_, err = gate.RequireRole(ctx, token, RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	identity, err := gate.RequireRole(ctx, token, RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 9, identity.ID)
}

func TestGate_Middleware(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	adminToken, _, _ := tokens.Issue(1, RoleAdmin)
	userToken, _, _ := tokens.Issue(2, RoleUser)
	inactiveToken, _, _ := tokens.Issue(3, RoleAdmin)
	brokenToken, _, _ := tokens.Issue(4, RoleAdmin)

	store := new(identityStoreMock)
	store.On("FindIdentity", mock.Anything, 1).Return(&Identity{ID: 1, Role: RoleAdmin, IsActive: true}, nil)
	store.On("FindIdentity", mock.Anything, 2).Return(&Identity{ID: 2, Role: RoleUser, IsActive: true}, nil)
	store.On("FindIdentity", mock.Anything, 3).Return(&Identity{ID: 3, Role: RoleAdmin, IsActive: false}, nil)
	store.On("FindIdentity", mock.Anything, 4).Return(nil, errors.New("connection refused"))
	gate := NewGate(tokens, store)

	protected := gate.Require(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, 1, identity.ID)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name         string
		header       string
		value        string
		expectedCode int
	}{
		{name: "bearer admin", header: "Authorization", value: "Bearer " + adminToken, expectedCode: http.StatusNoContent},
		{name: "auth-token admin", header: "auth-token", value: adminToken, expectedCode: http.StatusNoContent},
		{name: "missing token", expectedCode: http.StatusUnauthorized},
		{name: "user role", header: "Authorization", value: "Bearer " + userToken, expectedCode: http.StatusForbidden},
		{name: "deactivated", header: "Authorization", value: "Bearer " + inactiveToken, expectedCode: http.StatusUnauthorized},
		{name: "invalid token", header: "Authorization", value: "Bearer nope", expectedCode: http.StatusUnauthorized},
		{name: "store failure", header: "Authorization", value: "Bearer " + brokenToken, expectedCode: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if testCase.header != "" {
				req.Header.Set(testCase.header, testCase.value)
			}
			recorder := httptest.NewRecorder()
			protected.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
		})
	}
}

func TestGate_Optional(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	userToken, _, _ := tokens.Issue(2, RoleUser)

	store := new(identityStoreMock)
	store.On("FindIdentity", mock.Anything, 2).Return(&Identity{ID: 2, Role: RoleUser, IsActive: true}, nil)
	gate := NewGate(tokens, store)

	var seen *Identity
	handler := gate.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, 2, seen.ID)

	seen = nil
	req = httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer broken")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, seen)
}

func TestPostgresIdentityStore_FindIdentity(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresIdentityStore(db)

	sqlMock.ExpectQuery("SELECT id, name, email, role, is_active").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "is_active"}).
			AddRow(3, "Ana", "ana@example.com", RoleAdmin, true))
	sqlMock.ExpectQuery("SELECT id, name, email, role, is_active").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "is_active"}))

	identity, err := store.FindIdentity(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", identity.Email)

	_, err = store.FindIdentity(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
