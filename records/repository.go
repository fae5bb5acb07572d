package records

import (
	"context"
	"database/sql"
	"encoding/json"
)

// Record wraps an opaque clinical document. Data is stored as-is in a JSON
// column; the API is a pass-through and never interprets the payload.
type Record struct {
	ID        int            `json:"id"`
	PatientID int            `json:"patientId"`
	Data      map[string]any `json:"data"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

func scanRecords(rows *sql.Rows) ([]Record, error) {
	list := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var data []byte
		if err := rows.Scan(&rec.ID, &rec.PatientID, &data); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Data)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *Repository) All(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, patient_id, data FROM records ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByPatient returns the patient's records ordered by id. An unknown patient
// yields an empty list, not an error.
func (r *Repository) ByPatient(ctx context.Context, patientID int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, patient_id, data FROM records WHERE patient_id = ? ORDER BY id ASC", patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *Repository) Create(ctx context.Context, rec Record) (int64, error) {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO records (patient_id, data) VALUES (?, ?)", rec.PatientID, string(data))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repository) Update(ctx context.Context, rec Record) (int64, error) {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, "UPDATE records SET patient_id = ?, data = ? WHERE id = ?", rec.PatientID, string(data), rec.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
