package visits_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"product-catalog/core/database"
	"product-catalog/feature/visits"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, visits.Migrate(db))
	return db
}

func TestService_RecordIncrements(t *testing.T) {
	svc := visits.NewService(testDB(t))

	count, err := svc.Record(context.Background(), "/")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = svc.Record(context.Background(), "/")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestService_RecordIndependentPaths(t *testing.T) {
	svc := visits.NewService(testDB(t))

	_, err := svc.Record(context.Background(), "/")
	assert.NoError(t, err)
	count, err := svc.Record(context.Background(), "/health")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestService_RecordSurvivesReconnect(t *testing.T) {
	db := testDB(t)
	svc := visits.NewService(db)
	_, err := svc.Record(context.Background(), "/")
	assert.NoError(t, err)

	// A fresh service over the same database sees the stored total.
	again := visits.NewService(db)
	count, err := again.Record(context.Background(), "/")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestService_RecordConcurrent(t *testing.T) {
	svc := visits.NewService(testDB(t))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Record(context.Background(), "/")
		}()
	}
	wg.Wait()

	count, err := svc.Record(context.Background(), "/")
	assert.NoError(t, err)
	// No lost increments under concurrency.
	assert.EqualValues(t, 11, count)
}

func TestHandler_HealthReportsVisits(t *testing.T) {
	handler := visits.NewHandler(visits.NewService(testDB(t)), zap.NewNop())

	app := fiber.New()
	handler.RegisterRoutes(app)

	for i := 1; i <= 2; i++ {
		req := httptest.NewRequest(fiber.MethodGet, "/health", nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()
		assert.Equal(t, "ok", out["status"])
		assert.EqualValues(t, i, out["visits"])
	}
}
