// Package httpapi exposes the tool boundary as an HTTP JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.trai.ch/strata/internal/core/domain"
)

// maxBodyBytes bounds a tool request body.
const maxBodyBytes = 8 << 20

// Service is the tool boundary served over HTTP.
type Service interface {
	Dispatch(ctx context.Context, tool string, args []byte) []byte
	Tools() []domain.ToolInfo
}

// NewRouter builds the gin engine. metrics may be nil.
func NewRouter(svc Service, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("strata-http"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/v1")
	{
		v1.GET("/tools", listTools(svc))
		v1.POST("/tools/:name", callTool(svc))
	}
	return router
}

func listTools(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tools := svc.Tools()
		c.JSON(http.StatusOK, gin.H{"tools": tools, "count": len(tools)})
	}
}

func callTool(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, domain.ToolFailure{
				Error: "request body too large",
				Kind:  domain.KindInvalidInput,
			})
			return
		}

		out := svc.Dispatch(c.Request.Context(), c.Param("name"), body)
		c.Data(statusOf(out), "application/json; charset=utf-8", out)
	}
}

// statusOf maps a tool result document to an HTTP status.
func statusOf(result []byte) int {
	var failure domain.ToolFailure
	if err := json.Unmarshal(result, &failure); err != nil || failure.Error == "" {
		return http.StatusOK
	}
	switch failure.Kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindSourceUnavailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
