package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

// Exercises the whole happy path a new user walks through: register, create
// subjects, fill in chapters, complete one, open a subject, review progress,
// and set a target.
func TestUserJourney(t *testing.T) {
	env := SetupTestEnvironment(t)
	defer env.Cleanup()

	token := env.RegisterUser(t, "journey_user", "journey@example.com")

	// Batch create two subjects from one comma-separated string
	rec := env.DoJSON(t, "POST", "/subjects", token, map[string]string{
		"titles": "Mathematics, Physics",
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
	if batch.Created != 2 || batch.Failed != 0 {
		t.Fatalf("Expected 2 created / 0 failed, got %d / %d", batch.Created, batch.Failed)
	}
	if batch.Results[0].Title != "Mathematics" || batch.Results[1].Title != "Physics" {
		t.Fatalf("Results out of input order: %+v", batch.Results)
	}
	mathID := batch.Results[0].ID
	physicsID := batch.Results[1].ID

	// Add three chapters to Mathematics
	rec = env.DoJSON(t, "POST", "/subjects/"+mathID+"/chapters", token, map[string]string{
		"titles": "Limits, Derivatives, Integrals",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create chapters returned %d: %s", rec.Code, rec.Body.String())
	}
	var chapterBatch struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	json.Unmarshal(rec.Body.Bytes(), &chapterBatch)
	if len(chapterBatch.Results) != 3 {
		t.Fatalf("Expected 3 chapter results, got %d", len(chapterBatch.Results))
	}

	// Complete the first chapter
	completed := true
	rec = env.DoJSON(t, "PUT", "/chapters/"+chapterBatch.Results[0].ID+"/completion", token, map[string]interface{}{
		"completed": completed,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Set completion returned %d: %s", rec.Code, rec.Body.String())
	}
	var ch struct {
		Completed bool `json:"completed"`
		Progress  int  `json:"progress"`
	}
	json.Unmarshal(rec.Body.Bytes(), &ch)
	if !ch.Completed || ch.Progress != 100 {
		t.Fatalf("Expected completed chapter at 100%%, got %+v", ch)
	}

	// Open Physics; it should move to the front of the subject list
	rec = env.DoJSON(t, "POST", "/subjects/"+physicsID+"/open", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Open subject returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.DoJSON(t, "GET", "/subjects", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("List subjects returned %d: %s", rec.Code, rec.Body.String())
	}
	var list struct {
		Subjects []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"subjects"`
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Count != 2 {
		t.Fatalf("Expected 2 subjects, got %d", list.Count)
	}
	if list.Subjects[0].ID != physicsID {
		t.Fatalf("Expected opened subject first, got %q", list.Subjects[0].Title)
	}

	// Overview sums chapters across subjects: 1 of 3 done
	rec = env.DoJSON(t, "GET", "/progress/overview", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Overview returned %d: %s", rec.Code, rec.Body.String())
	}
	var overview struct {
		Subjects []struct {
			Subject struct {
				ID string `json:"id"`
			} `json:"subject"`
			CompletedChapters int     `json:"completed_chapters"`
			TotalChapters     int     `json:"total_chapters"`
			Percentage        float64 `json:"percentage"`
		} `json:"subjects"`
		CompletedChapters int     `json:"completed_chapters"`
		TotalChapters     int     `json:"total_chapters"`
		Percentage        float64 `json:"percentage"`
	}
	json.Unmarshal(rec.Body.Bytes(), &overview)
	if overview.CompletedChapters != 1 || overview.TotalChapters != 3 {
		t.Fatalf("Expected 1/3 overall, got %d/%d", overview.CompletedChapters, overview.TotalChapters)
	}
	if overview.Percentage < 33.2 || overview.Percentage > 33.4 {
		t.Fatalf("Expected ~33.3%% overall, got %f", overview.Percentage)
	}
	if overview.Subjects[0].Subject.ID != physicsID {
		t.Fatal("Overview not ordered by recency")
	}

	// Target: 20 chapters in ~10 days freezes a pace near 2/day
	targetDate := time.Now().Add(10*24*time.Hour + time.Hour)
	rec = env.DoJSON(t, "POST", "/targets", token, map[string]interface{}{
		"total_chapters": 20,
		"target_date":    targetDate.Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create target returned %d: %s", rec.Code, rec.Body.String())
	}
	var tgt struct {
		ChaptersPerDay float64 `json:"chapters_per_day"`
	}
	json.Unmarshal(rec.Body.Bytes(), &tgt)
	if tgt.ChaptersPerDay <= 0 || tgt.ChaptersPerDay > 20 {
		t.Fatalf("Unreasonable pace %f", tgt.ChaptersPerDay)
	}
}

func TestSubjectDeleteLeavesChapters(t *testing.T) {
	env := SetupTestEnvironment(t)
	defer env.Cleanup()

	token := env.RegisterUser(t, "delete_user", "delete@example.com")

	rec := env.DoJSON(t, "POST", "/subjects", token, map[string]string{"titles": "History"})
	var batch struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	json.Unmarshal(rec.Body.Bytes(), &batch)
	subjectID := batch.Results[0].ID

	rec = env.DoJSON(t, "POST", "/subjects/"+subjectID+"/chapters", token, map[string]string{"titles": "Antiquity, Middle Ages"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create chapters returned %d", rec.Code)
	}

	rec = env.DoJSON(t, "DELETE", "/subjects/"+subjectID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Delete subject returned %d: %s", rec.Code, rec.Body.String())
	}

	// The subject is gone but its chapter rows survive in the store
	rec = env.DoJSON(t, "GET", "/subjects/"+subjectID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for deleted subject, got %d", rec.Code)
	}

	var count int
	if err := env.DB.QueryRow(`SELECT COUNT(*) FROM chapters WHERE subject_id = ?`, subjectID).Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 orphaned chapters, got %d", count)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	env := SetupTestEnvironment(t)
	defer env.Cleanup()

	alice := env.RegisterUser(t, "alice_iso", "alice_iso@example.com")
	bob := env.RegisterUser(t, "bob_iso", "bob_iso@example.com")

	rec := env.DoJSON(t, "POST", "/subjects", alice, map[string]string{"titles": "Chemistry"})
	var batch struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	json.Unmarshal(rec.Body.Bytes(), &batch)
	subjectID := batch.Results[0].ID

	// Another user's subject reads as missing, not forbidden
	rec = env.DoJSON(t, "GET", "/subjects/"+subjectID, bob, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for foreign subject, got %d", rec.Code)
	}

	rec = env.DoJSON(t, "DELETE", "/subjects/"+subjectID, bob, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 deleting foreign subject, got %d", rec.Code)
	}

	// Owner still sees it
	rec = env.DoJSON(t, "GET", "/subjects/"+subjectID, alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Owner read returned %d", rec.Code)
	}
}
