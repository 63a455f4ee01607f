package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func TestGenerateJWT_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := GenerateJWT("ops@techcorp", 0)

	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT should have 3 parts")

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@techcorp", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	// default lifetime
	expiry := claims.ExpiresAt.Time
	assert.Less(t, expiry.Sub(time.Now().Add(DefaultTTL)).Abs(), 5*time.Second)
}

func TestGenerateJWT_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT("ops", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET not set")

	t.Setenv("JWT_SECRET", testSecret)

	_, err = GenerateJWT("", time.Hour)
	assert.Error(t, err)
}

func TestValidateJWT_Rejections(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	sign := func(method jwt.SigningMethod, key any, claims Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	valid, err := GenerateJWT("ops", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "expired",
			token: sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{
				Role: RoleAdmin,
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "ops",
					Issuer:    issuer,
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				},
			}),
		},
		{
			name: "wrong secret",
			token: sign(jwt.SigningMethodHS256, []byte("different-secret"), Claims{
				Role:             RoleAdmin,
				RegisteredClaims: jwt.RegisteredClaims{Subject: "ops", Issuer: issuer},
			}),
		},
		{
			name: "wrong issuer",
			token: sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{
				Role:             RoleAdmin,
				RegisteredClaims: jwt.RegisteredClaims{Subject: "ops", Issuer: "someone-else"},
			}),
		},
		{
			name: "none algorithm",
			token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{
				Role:             RoleAdmin,
				RegisteredClaims: jwt.RegisteredClaims{Subject: "attacker", Issuer: issuer},
			}),
		},
		{name: "tampered", token: valid[:len(valid)-5] + "XXXXX"},
		{name: "empty", token: ""},
		{name: "malformed", token: "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", testSecret)

	admin, err := GenerateJWT("ops@techcorp", time.Hour)
	require.NoError(t, err)

	viewer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	router := gin.New()
	router.POST("/admin", AdminMiddleware(), func(c *gin.Context) {
		subject, ok := GetSubject(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject, "ok": ok})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + admin, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "non-admin role", header: "Bearer " + viewer, wantStatus: http.StatusForbidden},
		{name: "admin", header: "Bearer " + admin, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "ops@techcorp", body["subject"])
				assert.Equal(t, true, body["ok"])
			}
		})
	}
}
