package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/observability"
)

func TestRequestLoggerFeedsMetrics(t *testing.T) {
	metrics := observability.NewMetrics()

	app := fiber.New()
	app.Use(observability.RequestLogger(zap.NewNop(), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
		assert.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, int64(3), metrics.RequestCount("/ping", http.MethodGet, http.StatusOK))
	assert.Equal(t, int64(0), metrics.RequestCount("/ping", http.MethodGet, http.StatusInternalServerError))
}

func TestRecordError(t *testing.T) {
	metrics := observability.NewMetrics()

	metrics.RecordError("/api/v1/users", http.MethodPost, "CONFLICT")
	metrics.RecordError("/api/v1/users", http.MethodPost, "CONFLICT")

	assert.Equal(t, int64(2), metrics.ErrorCount("/api/v1/users", http.MethodPost, "CONFLICT"))
	assert.Equal(t, int64(0), metrics.ErrorCount("/api/v1/users", http.MethodPost, "NOT_FOUND"))
}
