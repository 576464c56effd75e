package main

import (
	"log"

	"github.com/studytrack/studytrack/pkg/database"
)

func main() {
	if err := database.InitDatabase("data/studytrack.db"); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	_, err := database.DB.Exec(`DELETE FROM users WHERE id = 'user123'`)
	if err != nil {
		log.Printf("Note: Could not delete existing user: %v", err)
	}

	result, err := database.DB.Exec(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ('user123', 'testuser', 'test@example.com', '$2a$10$dummy', CURRENT_TIMESTAMP)`)
	if err != nil {
		log.Fatalf("Failed to insert user: %v", err)
	}

	rows, _ := result.RowsAffected()
	log.Printf("Inserted %d user(s)", rows)

	_, err = database.DB.Exec(`INSERT OR IGNORE INTO subjects (id, title, owner_id, created_at, updated_at) VALUES
		('subj-math', 'Mathematics', 'user123', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP),
		('subj-physics', 'Physics', 'user123', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err != nil {
		log.Fatalf("Failed to insert subjects: %v", err)
	}

	_, err = database.DB.Exec(`INSERT OR IGNORE INTO chapters (id, subject_id, title, completed, progress, created_at) VALUES
		('ch-math-1', 'subj-math', 'Limits', 1, 100, CURRENT_TIMESTAMP),
		('ch-math-2', 'subj-math', 'Derivatives', 0, 0, CURRENT_TIMESTAMP),
		('ch-math-3', 'subj-math', 'Integrals', 0, 0, CURRENT_TIMESTAMP),
		('ch-phys-1', 'subj-physics', 'Kinematics', 0, 0, CURRENT_TIMESTAMP)`)
	if err != nil {
		log.Fatalf("Failed to insert chapters: %v", err)
	}

	log.Println("Test data inserted successfully")
}
