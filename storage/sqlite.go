package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage is the delivery archive: a durable history of everything the
// bot has posted to the channel. Deduplication is the ledger's job; the
// archive exists for stats and history.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
}

type StorageInterface interface {
	Initialize() error
	RecordPost(post PostRecord) error
	GetRecentPosts(limit int) ([]PostRecord, error)
	GetStats() (map[string]int, error)
	Close() error
}

func NewSQLiteStorage(dataPath string) *SQLiteStorage {
	dbPath := filepath.Join(dataPath, "streamvault_bot.db")
	return &SQLiteStorage{
		dbPath:   dbPath,
		dataPath: dataPath,
	}
}

func (s *SQLiteStorage) Initialize() error {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	s.db = db

	// Initialize and run migrations using Goose
	migrationManager := NewMigrationManager(s.db)
	if err := migrationManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %v", err)
	}

	if err := migrationManager.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Printf("SQLite database initialized at: %s", s.dbPath)
	return nil
}

// RecordPost appends one delivery to the archive. Re-posting the same
// content id (possible after a crash mid-run) updates the existing row.
func (s *SQLiteStorage) RecordPost(post PostRecord) error {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE content_id = ? AND kind = ?)`,
		post.ContentID, post.Kind).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if post exists: %v", err)
	}

	if exists {
		query := `
		UPDATE posts
		SET title = ?, year = ?, rating = ?, posted_at = CURRENT_TIMESTAMP
		WHERE content_id = ? AND kind = ?
		`
		_, err := s.db.Exec(query, post.Title, post.Year, post.Rating, post.ContentID, post.Kind)
		if err != nil {
			return fmt.Errorf("failed to update post: %v", err)
		}
	} else {
		query := `
		INSERT INTO posts (content_id, kind, title, year, rating, posted_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		`
		_, err := s.db.Exec(query, post.ContentID, post.Kind, post.Title, post.Year, post.Rating)
		if err != nil {
			return fmt.Errorf("failed to insert post: %v", err)
		}
	}

	return nil
}

// GetRecentPosts returns the most recent deliveries, newest first.
func (s *SQLiteStorage) GetRecentPosts(limit int) ([]PostRecord, error) {
	query := `
	SELECT content_id, kind, title, year, rating, posted_at
	FROM posts
	ORDER BY posted_at DESC
	LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %v", err)
	}
	defer rows.Close()

	var posts []PostRecord
	for rows.Next() {
		var post PostRecord
		err := rows.Scan(&post.ContentID, &post.Kind, &post.Title, &post.Year, &post.Rating, &post.PostedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %v", err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// GetStats returns delivery counts: total, shows, movies.
func (s *SQLiteStorage) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %v", err)
	}
	stats["total"] = total

	var shows int
	err = s.db.QueryRow("SELECT COUNT(*) FROM posts WHERE kind = 'shows'").Scan(&shows)
	if err != nil {
		return nil, fmt.Errorf("failed to get shows count: %v", err)
	}
	stats["shows"] = shows

	var movies int
	err = s.db.QueryRow("SELECT COUNT(*) FROM posts WHERE kind = 'movies'").Scan(&movies)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies count: %v", err)
	}
	stats["movies"] = movies

	return stats, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		db, err := sql.Open("sqlite3", s.dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %v", err)
		}
		s.db = db
	}
	return s.db, nil
}

// Migration management methods
func (s *SQLiteStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db)
}

func (s *SQLiteStorage) GetDatabaseVersion() (int64, error) {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return 0, err
	}
	return migrationManager.Version()
}

func (s *SQLiteStorage) RunMigrations() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Up()
}
