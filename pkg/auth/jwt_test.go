package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "riskengine-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_Validation(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Expiration: time.Minute})
	assert.Error(t, err)

	_, err = NewJWTService(JWTConfig{Secret: "s"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, expiresAt, err := svc.GenerateToken("admin", []string{RoleOperator})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "riskengine-test", claims.Issuer)
	assert.True(t, claims.HasRole(RoleOperator))
	assert.False(t, claims.HasRole("auditor"))
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateToken("admin", nil)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecretOrIssuer(t *testing.T) {
	svc := newTestJWTService(t)
	token, _, err := svc.GenerateToken("admin", nil)
	require.NoError(t, err)

	other, err := NewJWTService(JWTConfig{Secret: "another", Issuer: "riskengine-test", Expiration: time.Minute})
	require.NoError(t, err)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	foreign, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "someone-else", Expiration: time.Minute})
	require.NoError(t, err)
	_, err = foreign.ValidateToken(token)
	assert.Error(t, err)
}

func TestOperatorLogin(t *testing.T) {
	svc := newTestJWTService(t)
	login := NewOperatorLogin(svc, "admin", "s3cret")

	token, err := login.Login("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleOperator))

	_, err = login.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = login.Login("root", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// an unset password never matches
	_, err = NewOperatorLogin(svc, "admin", "").Login("admin", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	expected := &Claims{Username: "admin"}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), expected))
	require.True(t, ok)
	assert.Same(t, expected, got)
}

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	token, _, err := svc.GenerateToken("admin", []string{RoleOperator})
	require.NoError(t, err)

	var seen *Claims
	handler := HTTPMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "admin", seen.Username)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	token, _, err := svc.GenerateToken("admin", nil)
	require.NoError(t, err)

	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})
	handler := func(ctx context.Context, _ any) (any, error) {
		claims, _ := ClaimsFromContext(ctx)
		return claims, nil
	}

	_, err = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	assert.NoError(t, err)

	info := &grpc.UnaryServerInfo{FullMethod: "/riskengine.v1.RiskService/ListAlerts"}
	_, err = interceptor(context.Background(), nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer bad"))
	_, err = interceptor(ctx, nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx = metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	resp, err := interceptor(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.(*Claims).Username)
}
