package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/service"
)

type singleUserReader struct {
	user *models.User
}

func (s *singleUserReader) FindByEmail(context.Context, string) (*models.User, error) {
	return s.user, nil
}

func (s *singleUserReader) UpdateLastLogin(context.Context, string, time.Time) error {
	return nil
}

func newAuthWithUser(t *testing.T, role models.UserRole) (*service.AuthService, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	auth := service.NewAuthService(&singleUserReader{user: &models.User{
		ID:           "user-1",
		Email:        "ops@example.com",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}}, zap.NewNop(), validator.New(), "secret", time.Hour)

	resp, err := auth.Login(context.Background(), &models.LoginRequest{
		Email:    "ops@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	return auth, resp.AccessToken
}

func protectedRouter(auth *service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID)})
	})
	r.GET("/secure", handlers...)
	return r
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	auth, token := newAuthWithUser(t, models.RoleAdmin)
	router := protectedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-1")
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	auth, _ := newAuthWithUser(t, models.RoleAdmin)
	router := protectedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsMalformedToken(t *testing.T) {
	auth, _ := newAuthWithUser(t, models.RoleAdmin)
	router := protectedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminBlocksViewer(t *testing.T) {
	auth, token := newAuthWithUser(t, models.RoleViewer)
	router := protectedRouter(auth, RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	auth, token := newAuthWithUser(t, models.RoleAdmin)
	router := protectedRouter(auth, RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
