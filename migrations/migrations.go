package migrations

import (
	"database/sql"
	"fmt"
)

var db *sql.DB

// Init sets the DB connection used by Migrate.
func Init(database *sql.DB) {
	db = database
}

// Migrate creates required tables if they do not exist.
func Migrate() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}

	createPatients := `
	CREATE TABLE IF NOT EXISTS patients (
		id INT PRIMARY KEY,
		name VARCHAR(191) NOT NULL DEFAULT '',
		age INT NOT NULL DEFAULT 0,
		birth_date VARCHAR(50) NOT NULL DEFAULT '',
		gender VARCHAR(20) NOT NULL DEFAULT '',
		telecom VARCHAR(191) NOT NULL DEFAULT '',
		conditions JSON NULL,
		medications JSON NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createPatients); err != nil {
		return err
	}

	// Record payloads are opaque documents; they live in a JSON column so the
	// API stays a pass-through like the original store.
	createRecords := `
	CREATE TABLE IF NOT EXISTS records (
		id INT AUTO_INCREMENT PRIMARY KEY,
		patient_id INT NOT NULL,
		data JSON NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_records_patient (patient_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createRecords); err != nil {
		return err
	}

	createUploads := `
	CREATE TABLE IF NOT EXISTS uploads (
		id INT AUTO_INCREMENT PRIMARY KEY,
		date VARCHAR(50) NOT NULL DEFAULT '',
		type VARCHAR(20) NOT NULL,
		filename VARCHAR(255) NOT NULL DEFAULT 'unknown.json',
		item_count INT NOT NULL DEFAULT 0,
		processed_items INT NOT NULL DEFAULT 0,
		failed_items INT NOT NULL DEFAULT 0,
		status VARCHAR(50) NOT NULL DEFAULT 'processing',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createUploads); err != nil {
		return err
	}

	return nil
}
