// Package costapi is the cost-aware entry point: POST /search answered
// with the upstream payload augmented with cost and balance_impact fields.
package costapi

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ametow/leakgate/internal/domain"
	"github.com/ametow/leakgate/internal/metrics"
	"github.com/ametow/leakgate/internal/server"
	"github.com/ametow/leakgate/internal/service"
)

type Deps struct {
	Service service.ProxyService
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	AllowedOrigins []string
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(deps.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/search", handleSearch(deps))

	return r
}

func handleSearch(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if deps.Metrics != nil {
			deps.Metrics.IncRequestsInFlight()
			defer deps.Metrics.DecRequestsInFlight()
		}

		finish := func(status int, v any) {
			c.JSON(status, v)
			if deps.Metrics != nil {
				deps.Metrics.RecordRequest("search", strconv.Itoa(status), time.Since(start))
			}
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20))
		if err != nil {
			finish(http.StatusBadRequest, server.ErrorBody(domain.ErrInvalidBody))
			return
		}

		req, err := domain.ParseSearchRequest(body, false)
		if err != nil {
			deps.Logger.Debug("rejecting request", zap.Error(err))
			finish(server.StatusForError(err), server.ErrorBody(err))
			return
		}

		result, err := deps.Service.ProcessWithCost(c.Request.Context(), req)
		if err != nil {
			finish(server.StatusForError(err), server.ErrorBody(err))
			return
		}

		finish(http.StatusOK, result)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allow := func(origin string) string {
		if len(origins) == 0 {
			return "*"
		}
		for _, o := range origins {
			if o == origin {
				return o
			}
		}
		return origins[0]
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allow(c.GetHeader("Origin")))
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"ok": true})
			return
		}

		c.Next()
	}
}
