package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestBatchCreateKeepsDuplicatesAndOrder(t *testing.T) {
	env := SetupTestEnvironment(t)
	defer env.Cleanup()

	token := env.RegisterUser(t, "batch_user", "batch@example.com")

	// Duplicates are intentional: two identical titles become two records
	rec := env.DoJSON(t, "POST", "/subjects", token, map[string]string{
		"titles": "Algebra, , Algebra,  Calculus  ",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create subjects returned %d: %s", rec.Code, rec.Body.String())
	}

	var batch struct {
		Created int `json:"created"`
		Failed  int `json:"failed"`
		Results []struct {
			Title string `json:"title"`
			OK    bool   `json:"ok"`
			ID    string `json:"id"`
		} `json:"results"`
	}
	json.Unmarshal(rec.Body.Bytes(), &batch)

	if batch.Created != 3 || batch.Failed != 0 {
		t.Fatalf("Expected 3 created / 0 failed, got %d / %d", batch.Created, batch.Failed)
	}
	wantTitles := []string{"Algebra", "Algebra", "Calculus"}
	for i, want := range wantTitles {
		if batch.Results[i].Title != want {
			t.Errorf("Result %d: expected %q, got %q", i, want, batch.Results[i].Title)
		}
		if !batch.Results[i].OK || batch.Results[i].ID == "" {
			t.Errorf("Result %d missing ID: %+v", i, batch.Results[i])
		}
	}
	if batch.Results[0].ID == batch.Results[1].ID {
		t.Error("Duplicate titles must produce distinct records")
	}

	rec = env.DoJSON(t, "GET", "/subjects", token, nil)
	var list struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Count != 3 {
		t.Fatalf("Expected 3 stored subjects, got %d", list.Count)
	}
}

func TestBatchCreateRejectsAllEmptyInput(t *testing.T) {
	env := SetupTestEnvironment(t)
	defer env.Cleanup()

	token := env.RegisterUser(t, "empty_batch_user", "empty_batch@example.com")

	rec := env.DoJSON(t, "POST", "/subjects", token, map[string]string{
		"titles": " ,  , ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for empty titles, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTargetInThePastRejected(t *testing.T) {
	env := SetupTestEnvironment(t)
	defer env.Cleanup()

	token := env.RegisterUser(t, "past_target_user", "past_target@example.com")

	rec := env.DoJSON(t, "POST", "/targets", token, map[string]interface{}{
		"total_chapters": 10,
		"target_date":    "2020-01-01T00:00:00Z",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for past target date, got %d: %s", rec.Code, rec.Body.String())
	}

	// Nothing was persisted
	rec = env.DoJSON(t, "GET", "/targets", token, nil)
	var list struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Count != 0 {
		t.Fatalf("Expected no stored targets, got %d", list.Count)
	}
}
