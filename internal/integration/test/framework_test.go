package integration_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/internal/auth"
	"github.com/studytrack/studytrack/internal/chapter"
	"github.com/studytrack/studytrack/internal/events"
	internalprogress "github.com/studytrack/studytrack/internal/progress"
	"github.com/studytrack/studytrack/internal/store"
	"github.com/studytrack/studytrack/internal/subject"
	"github.com/studytrack/studytrack/internal/target"
	"github.com/studytrack/studytrack/internal/user"
	"github.com/studytrack/studytrack/pkg/database"
	"github.com/studytrack/studytrack/pkg/logger"
	"github.com/studytrack/studytrack/pkg/plan"
)

const testJWTSecret = "integration-test-secret"

type TestEnvironment struct {
	Router       *gin.Engine
	Hub          *events.Hub
	Store        *store.Store
	DB           *sql.DB
	cleanup      []func()
	cleanupMutex sync.Mutex
}

func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	gin.SetMode(gin.TestMode)
	logger.Init(logger.ERROR, false, nil)

	dbPath := fmt.Sprintf("%s/integration_test_%d.db", t.TempDir(), time.Now().UnixNano())

	if err := database.InitDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	hub := events.NewHub(logger.WithContext("component", "event_hub"))
	hub.Start()

	st := store.New(database.DB)
	clock := plan.SystemClock{}

	authHandler := auth.NewHandler(testJWTSecret)
	subjectHandler := subject.NewHandler(st, hub, clock)
	chapterHandler := chapter.NewHandler(st, hub)
	progressHandler := internalprogress.NewHandler(st)
	targetHandler := target.NewHandler(st, hub, clock)
	userHandler := user.NewHandler(clock)

	router := gin.New()

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("")
	protected.Use(auth.AuthMiddleware(testJWTSecret, authHandler))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/subjects", subjectHandler.ListSubjects)
		protected.POST("/subjects", subjectHandler.CreateSubjects)
		protected.GET("/subjects/:id", subjectHandler.GetSubject)
		protected.PUT("/subjects/:id", subjectHandler.RenameSubject)
		protected.POST("/subjects/:id/open", subjectHandler.OpenSubject)
		protected.DELETE("/subjects/:id", subjectHandler.DeleteSubject)
		protected.GET("/subjects/:id/chapters", chapterHandler.ListChapters)
		protected.POST("/subjects/:id/chapters", chapterHandler.CreateChapters)
		protected.GET("/subjects/:id/progress", progressHandler.SubjectProgress)
		protected.PUT("/chapters/:id/completion", chapterHandler.SetCompletion)
		protected.GET("/progress/overview", progressHandler.Overview)
		protected.POST("/targets", targetHandler.CreateTarget)
		protected.GET("/targets", targetHandler.ListTargets)
		protected.GET("/users/me", userHandler.GetProfile)
		protected.GET("/users/greeting", userHandler.Greeting)
	}

	env := &TestEnvironment{
		Router: router,
		Hub:    hub,
		Store:  st,
		DB:     database.DB,
		cleanup: []func(){
			func() { os.Remove(dbPath) },
			func() { database.Close() },
			func() { hub.Stop() },
		},
	}

	return env
}

func (env *TestEnvironment) AddCleanup(fn func()) {
	env.cleanupMutex.Lock()
	defer env.cleanupMutex.Unlock()
	env.cleanup = append(env.cleanup, fn)
}

func (env *TestEnvironment) Cleanup() {
	env.cleanupMutex.Lock()
	defer env.cleanupMutex.Unlock()

	for i := len(env.cleanup) - 1; i >= 0; i-- {
		env.cleanup[i]()
	}
}

// DoJSON performs a request against the in-memory router. A non-empty token
// is sent as a bearer Authorization header.
func (env *TestEnvironment) DoJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// RegisterUser registers a fresh user and returns the auth token.
func (env *TestEnvironment) RegisterUser(t *testing.T, username, email string) string {
	t.Helper()

	rec := env.DoJSON(t, "POST", "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "Sup3rSecret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Register returned %d: %s", rec.Code, rec.Body.String())
	}

	var authResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &authResp); err != nil {
		t.Fatalf("Failed to parse register response: %v", err)
	}
	if authResp.Token == "" {
		t.Fatal("Register response contained no token")
	}
	return authResp.Token
}
