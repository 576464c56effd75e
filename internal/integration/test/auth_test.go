package integration_test

import (
	"net/http"
	"testing"
)

// A logged-out token must stop authenticating.
func TestLogoutRevokesToken(t *testing.T) {
	env := SetupTestEnvironment(t)
	defer env.Cleanup()

	token := env.RegisterUser(t, "casey", "casey@example.com")

	rec := env.DoJSON(t, "GET", "/subjects", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 before logout, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.DoJSON(t, "POST", "/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Logout returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.DoJSON(t, "GET", "/subjects", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 after logout, got %d: %s", rec.Code, rec.Body.String())
	}
}
