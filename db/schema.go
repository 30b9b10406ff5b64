package db

import (
	"database/sql"
	"fmt"
)

// schema statements are executed in order on startup. Foreign keys are
// declared but no ON DELETE CASCADE: deleting a parent leaves children
// in place, matching the application's weak-reference semantics.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id INT NOT NULL,
		role_id INT NOT NULL,
		PRIMARY KEY (user_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS course_user (
		course_id INT NOT NULL,
		user_id INT NOT NULL,
		role VARCHAR(64) NOT NULL,
		PRIMARY KEY (course_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		course_id INT NOT NULL,
		teacher_id INT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		subject_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		due_date DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		assignment_id INT NOT NULL,
		submitted_at DATETIME NULL,
		grade DECIMAL(4,2) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INT AUTO_INCREMENT PRIMARY KEY,
		sender_id INT NOT NULL,
		receiver_id INT NOT NULL,
		content TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NULL
	)`,
	`CREATE TABLE IF NOT EXISTS access_tokens (
		id CHAR(36) PRIMARY KEY,
		user_id INT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_used_at DATETIME NULL
	)`,
	`INSERT IGNORE INTO roles (name) VALUES ('admin'), ('teacher'), ('student')`,
}

// Migrate creates all tables and seeds the role names
func Migrate(database *sql.DB) error {
	for _, stmt := range schema {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %v", err)
		}
	}
	return nil
}
