package uploads

import (
	"context"
	"database/sql"
	"time"
)

// Upload is one ingestion audit row.
type Upload struct {
	ID             int        `json:"id"`
	Date           string     `json:"date"`
	Type           string     `json:"type"`
	Filename       string     `json:"filename"`
	ItemCount      int        `json:"itemCount"`
	ProcessedItems int        `json:"processedItems"`
	FailedItems    int        `json:"failedItems"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

// Begin records a new ingestion in 'processing' state and returns its id.
func (r *Repository) Begin(ctx context.Context, date, uploadType, filename string, itemCount int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO uploads (date, type, filename, item_count, status) VALUES (?, ?, ?, ?, 'processing')",
		date, uploadType, filename, itemCount)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Finalize stores the outcome counts and terminal status for an ingestion.
func (r *Repository) Finalize(ctx context.Context, id int64, processed, failed int, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE uploads SET processed_items = ?, failed_items = ?, status = ?, completed_at = NOW() WHERE id = ?",
		processed, failed, status, id)
	return err
}

// Recent returns the latest ingestions, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Upload, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date, type, filename, item_count, processed_items, failed_items, status, created_at, completed_at FROM uploads ORDER BY created_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]Upload, 0)
	for rows.Next() {
		var u Upload
		var completed sql.NullTime
		if err := rows.Scan(&u.ID, &u.Date, &u.Type, &u.Filename, &u.ItemCount, &u.ProcessedItems, &u.FailedItems, &u.Status, &u.CreatedAt, &completed); err != nil {
			return nil, err
		}
		if completed.Valid {
			t := completed.Time
			u.CompletedAt = &t
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
