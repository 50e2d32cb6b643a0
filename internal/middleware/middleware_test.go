package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
	"github.com/kopdigital/koperasi-backend/pkg/jwt"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeMemberService struct {
	member *models.Member
	err    error
}

func (f *fakeMemberService) GetByUserID(ctx context.Context, userID string) (*models.Member, error) {
	return f.member, f.err
}

func (f *fakeMemberService) ListMembers(ctx context.Context, status models.MemberStatus, page, limit int) ([]*models.Member, *models.Pagination, error) {
	return nil, nil, nil
}

func (f *fakeMemberService) UpdateStatus(ctx context.Context, memberID string, status models.MemberStatus) (*models.Member, error) {
	return nil, nil
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		resp := gin.H{"user_id": c.GetString(ContextUserID), "role": c.GetString(ContextUserRole)}
		if m, ok := CurrentMember(c); ok {
			resp["member"] = m.FullName
		}
		c.JSON(http.StatusOK, resp)
	})
	return r
}

func doRequest(r http.Handler, header map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := jwt.NewTokenService("secret", "koperasi", time.Hour)
	r := newTestRouter(JWTAuthMiddleware(tokens))

	userID := primitive.NewObjectID().Hex()
	token, err := tokens.GenerateToken(userID, "siti@example.com", models.RoleMember)
	require.NoError(t, err)

	w, body := doRequest(r, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, userID, body["user_id"])
	require.Equal(t, models.RoleMember, body["role"])

	w, body = doRequest(r, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Authorization header is required", body["error"])

	w, _ = doRequest(r, map[string]string{"Authorization": "Token " + token})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	other := jwt.NewTokenService("other-secret", "koperasi", time.Hour)
	forged, err := other.GenerateToken(userID, "siti@example.com", models.RoleAdmin)
	require.NoError(t, err)
	w, body = doRequest(r, map[string]string{"Authorization": "Bearer " + forged})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid token", body["error"])

	expiredIssuer := jwt.NewTokenService("secret", "koperasi", -time.Hour)
	expired, err := expiredIssuer.GenerateToken(userID, "siti@example.com", models.RoleMember)
	require.NoError(t, err)
	w, body = doRequest(r, map[string]string{"Authorization": "Bearer " + expired})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Token has expired", body["error"])
}

func TestMemberMiddleware(t *testing.T) {
	setUser := func(c *gin.Context) {
		c.Set(ContextUserID, primitive.NewObjectID().Hex())
		c.Next()
	}

	active := &models.Member{FullName: "Siti", Status: models.MemberStatusActive}
	w, body := doRequest(newTestRouter(setUser, MemberMiddleware(&fakeMemberService{member: active}, true)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Siti", body["member"])

	pending := &models.Member{FullName: "Budi", Status: models.MemberStatusPending}
	w, body = doRequest(newTestRouter(setUser, MemberMiddleware(&fakeMemberService{member: pending}, true)), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, string(errutil.StatusForbidden), body["code"])

	w, body = doRequest(newTestRouter(setUser, MemberMiddleware(&fakeMemberService{member: pending}, false)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Budi", body["member"])

	missing := &fakeMemberService{err: errutil.NotFound("member not found", nil)}
	w, _ = doRequest(newTestRouter(setUser, MemberMiddleware(missing, true)), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireRole(t *testing.T) {
	asRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ContextUserRole, role)
			c.Next()
		}
	}

	w, _ := doRequest(newTestRouter(asRole(models.RoleAdmin), RequireRole(models.RoleAdmin)), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(newTestRouter(asRole(models.RoleMember), RequireRole(models.RoleAdmin)), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/validation", func(c *gin.Context) {
		_ = c.Error(errutil.ValidationFailed("invalid weight_kg", nil,
			errutil.WithDetails(errutil.Detail{Field: "weight_kg", Message: "must be greater than 0"})))
	})
	r.GET("/internal", func(c *gin.Context) {
		_ = c.Error(errutil.Internal("failed to record contribution", errors.New("mongo: socket closed")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	get := func(path string) (*httptest.ResponseRecorder, map[string]interface{}) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w, body
	}

	w, body := get("/validation")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid weight_kg", body["error"])
	require.Len(t, body["details"], 1)

	w, body = get("/internal")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "internal server error", body["error"])
	require.NotContains(t, w.Body.String(), "socket")

	w, _ = get("/plain")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newTestRouter(RequestIDMiddleware())

	w, _ := doRequest(r, nil)
	require.Len(t, w.Header().Get("X-Request-ID"), 36)

	w, _ = doRequest(r, map[string]string{"X-Request-ID": "abc-123"})
	require.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	r := newTestRouter(CORSMiddleware([]string{"https://app.koperasi.id"}))

	w, _ := doRequest(r, map[string]string{"Origin": "https://app.koperasi.id"})
	require.Equal(t, "https://app.koperasi.id", w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = doRequest(r, map[string]string{"Origin": "https://evil.example"})
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.koperasi.id")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLoggerMiddleware(t *testing.T) {
	r := newTestRouter(LoggerMiddleware(zap.NewNop()))
	w, _ := doRequest(r, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
