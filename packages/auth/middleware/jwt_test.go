package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"owl-league/packages/auth/models"
	"owl-league/packages/auth/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, issue func() (*models.TokenResponse, error)) string {
	t.Helper()
	resp, err := issue()
	require.NoError(t, err)
	return resp.AccessToken
}

func TestRequireAdmin(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret")
	r := gin.New()
	r.GET("/admin", JWTMiddleware(issuer), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"week token", "Bearer " + token(t, func() (*models.TokenResponse, error) { return issuer.IssueWeekToken("16/10/2024", "nonce-1") }), http.StatusForbidden},
		{"admin token", "Bearer " + token(t, issuer.IssueAdminToken), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCanReportWeek(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret")
	weekToken := token(t, func() (*models.TokenResponse, error) { return issuer.IssueWeekToken("16/10/2024", "nonce-1") })

	var allowed bool
	r := gin.New()
	r.GET("/report", OptionalJWT(issuer), func(c *gin.Context) {
		allowed = CanReportWeek(c, c.Query("week"), c.Query("lock"))
	})

	lock := "nonce-1"
	do := func(week, header, value string) bool {
		req := httptest.NewRequest(http.MethodGet, "/report?week="+week+"&lock="+lock, nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		return allowed
	}

	assert.False(t, do("16/10/2024", "", ""))
	assert.True(t, do("16/10/2024", WeekTokenHeader, weekToken))
	assert.True(t, do("16/10/2024", "Authorization", "Bearer "+weekToken))
	assert.False(t, do("23/10/2024", WeekTokenHeader, weekToken))
	assert.True(t, do("23/10/2024", "Authorization", "Bearer "+token(t, issuer.IssueAdminToken)))

	// a new password means a new nonce
	lock = "nonce-2"
	assert.False(t, do("16/10/2024", WeekTokenHeader, weekToken))
	lock = ""
	assert.False(t, do("16/10/2024", WeekTokenHeader, weekToken))
	assert.True(t, do("16/10/2024", "Authorization", "Bearer "+token(t, issuer.IssueAdminToken)))
}
