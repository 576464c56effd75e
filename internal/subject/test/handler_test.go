package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/internal/store"
	"github.com/studytrack/studytrack/internal/subject"
	"github.com/studytrack/studytrack/pkg/database"
	"github.com/studytrack/studytrack/pkg/logger"
	"github.com/studytrack/studytrack/pkg/models"
	"github.com/studytrack/studytrack/pkg/plan"
)

const testUserID = "user-1"

// flakyStore delegates to the real store but fails creates for one title,
// so a batch can land partially.
type flakyStore struct {
	*store.Store
	failTitle string
}

func (f *flakyStore) CreateSubject(ctx context.Context, ownerID, title string) (*models.Subject, error) {
	if title == f.failTitle {
		return nil, errors.New("database is locked")
	}
	return f.Store.CreateSubject(ctx, ownerID, title)
}

// brokenStore fails every create.
type brokenStore struct {
	*store.Store
}

func (b *brokenStore) CreateSubject(ctx context.Context, ownerID, title string) (*models.Subject, error) {
	return nil, errors.New("database is locked")
}

func setupSubjectRouter(t *testing.T, st subject.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Init(logger.ERROR, false, nil)

	hub := events.NewHub(logger.GetLogger())
	hub.Start()
	t.Cleanup(hub.Stop)

	h := subject.NewHandler(st, hub, plan.SystemClock{})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
	})
	router.GET("/subjects", h.ListSubjects)
	router.POST("/subjects", h.CreateSubjects)
	return router
}

func newRealStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := fmt.Sprintf("%s/subject_test_%d.db", t.TempDir(), time.Now().UnixNano())
	if err := database.InitDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return store.New(database.DB)
}

func postTitles(t *testing.T, router *gin.Engine, titles string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"titles": titles})
	req := httptest.NewRequest("POST", "/subjects", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// A batch where one create fails must report per-title outcomes with 207
// and leave the successful creates in place.
func TestBatchCreatePartialFailure(t *testing.T) {
	st := newRealStore(t)
	router := setupSubjectRouter(t, &flakyStore{Store: st, failTitle: "Physics"})

	rec := postTitles(t, router, "Mathematics, Physics, Chemistry")
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("Expected 207, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.BatchCreateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Created != 2 || resp.Failed != 1 {
		t.Fatalf("Expected 2 created / 1 failed, got %d / %d", resp.Created, resp.Failed)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(resp.Results))
	}

	// Results keep input order; only the middle title failed.
	if !resp.Results[0].OK || resp.Results[0].Title != "Mathematics" || resp.Results[0].ID == "" {
		t.Errorf("Unexpected first result: %+v", resp.Results[0])
	}
	if resp.Results[1].OK || resp.Results[1].Title != "Physics" || resp.Results[1].Error == "" {
		t.Errorf("Expected failed second result with an error, got %+v", resp.Results[1])
	}
	if !resp.Results[2].OK || resp.Results[2].Title != "Chemistry" {
		t.Errorf("Unexpected third result: %+v", resp.Results[2])
	}

	// Only the successful records exist afterward.
	subjects, err := st.ListSubjects(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ListSubjects failed: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("Expected 2 stored subjects, got %d", len(subjects))
	}
	titles := map[string]bool{}
	for _, s := range subjects {
		titles[s.Title] = true
	}
	if !titles["Mathematics"] || !titles["Chemistry"] || titles["Physics"] {
		t.Errorf("Unexpected stored titles: %v", titles)
	}
}

// When every create fails the batch reports a server error, still with the
// per-title outcome list.
func TestBatchCreateAllFail(t *testing.T) {
	st := newRealStore(t)
	router := setupSubjectRouter(t, &brokenStore{Store: st})

	rec := postTitles(t, router, "Mathematics, Physics")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.BatchCreateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Created != 0 || resp.Failed != 2 {
		t.Fatalf("Expected 0 created / 2 failed, got %d / %d", resp.Created, resp.Failed)
	}

	subjects, err := st.ListSubjects(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ListSubjects failed: %v", err)
	}
	if len(subjects) != 0 {
		t.Fatalf("Expected no stored subjects, got %d", len(subjects))
	}
}
