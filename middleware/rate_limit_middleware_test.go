package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notebin-app/notebin/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func doRequest(router *gin.Engine, path, remoteAddr string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_EnforcesLimit(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/limited", RateLimitMiddleware(db, RateLimitClassCreate, 2, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "/limited", "203.0.113.1:1000")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/limited", "203.0.113.1:1000")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/limited", "203.0.113.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retryAfterSeconds")
}

func TestRateLimitMiddleware_PerCaller(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/limited", RateLimitMiddleware(db, RateLimitClassReport, 1, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "/limited", "203.0.113.1:1000")
	assert.Equal(t, http.StatusOK, w.Code)

	// A different caller has its own budget.
	w = doRequest(router, "/limited", "198.51.100.2:1000")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/limited", "203.0.113.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitMiddleware_PerClass(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/create", RateLimitMiddleware(db, RateLimitClassCreate, 1, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/update", RateLimitMiddleware(db, RateLimitClassUpdate, 1, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "/create", "203.0.113.1:1000")
	assert.Equal(t, http.StatusOK, w.Code)

	// Exhausting one class leaves the other untouched.
	w = doRequest(router, "/update", "203.0.113.1:1000")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/create", "203.0.113.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitMiddleware_ZeroLimitDisables(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/open", RateLimitMiddleware(db, RateLimitClassCreate, 0, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		w := doRequest(router, "/open", "203.0.113.1:1000")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
