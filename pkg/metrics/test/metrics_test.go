package metrics_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/pkg/metrics"
)

func TestCounters(t *testing.T) {
	metrics.Reset()

	metrics.IncrementBroadcasts()
	metrics.IncrementBroadcasts()
	metrics.IncrementBroadcastFails()
	metrics.AddBatchItems(5)
	metrics.AddBatchItemFails(2)
	metrics.IncrementSubjectsOpened()
	metrics.SetActiveConnections(3)

	if got := metrics.GetBroadcasts(); got != 2 {
		t.Errorf("Expected 2 broadcasts, got %d", got)
	}
	if got := metrics.GetBroadcastFails(); got != 1 {
		t.Errorf("Expected 1 broadcast fail, got %d", got)
	}
	if got := metrics.GetBatchItems(); got != 5 {
		t.Errorf("Expected 5 batch items, got %d", got)
	}
	if got := metrics.GetBatchItemFails(); got != 2 {
		t.Errorf("Expected 2 batch item fails, got %d", got)
	}
	if got := metrics.GetSubjectsOpened(); got != 1 {
		t.Errorf("Expected 1 subject opened, got %d", got)
	}
	if got := metrics.GetActiveConnections(); got != 3 {
		t.Errorf("Expected 3 active connections, got %d", got)
	}
}

func TestReset(t *testing.T) {
	metrics.IncrementBroadcasts()
	metrics.AddBatchItems(10)

	metrics.Reset()

	if metrics.GetBroadcasts() != 0 || metrics.GetBatchItems() != 0 {
		t.Error("Expected all counters to be zero after reset")
	}
}

func TestConcurrentIncrements(t *testing.T) {
	metrics.Reset()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.IncrementBroadcasts()
			metrics.AddBatchItems(1)
		}()
	}
	wg.Wait()

	if got := metrics.GetBroadcasts(); got != 100 {
		t.Errorf("Expected 100 broadcasts, got %d", got)
	}
	if got := metrics.GetBatchItems(); got != 100 {
		t.Errorf("Expected 100 batch items, got %d", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.Reset()
	metrics.IncrementBroadcasts()
	metrics.AddBatchItems(4)

	router := gin.New()
	handler := metrics.NewHandler()
	router.GET("/metrics", handler.Metrics)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse metrics response: %v", err)
	}
	if body["broadcasts_total"] != 1 {
		t.Errorf("Expected broadcasts_total 1, got %d", body["broadcasts_total"])
	}
	if body["batch_items_total"] != 4 {
		t.Errorf("Expected batch_items_total 4, got %d", body["batch_items_total"])
	}
}
