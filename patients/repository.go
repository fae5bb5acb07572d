package patients

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when no patient has the requested id.
var ErrNotFound = errors.New("patient not found")

// Patient is the demographic record exposed by the API and the chat context
// assembler. Gender is stored as sent by the client ("m", "f" or free text).
type Patient struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	BirthDate   string   `json:"birthDate"`
	Gender      string   `json:"gender"`
	Telecom     string   `json:"telecom"`
	Conditions  []string `json:"conditions"`
	Medications []string `json:"medications"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

const patientColumns = "id, name, age, birth_date, gender, telecom, conditions, medications"

func scanPatient(row interface{ Scan(...any) error }) (*Patient, error) {
	var p Patient
	var conditions, medications sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Age, &p.BirthDate, &p.Gender, &p.Telecom, &conditions, &medications); err != nil {
		return nil, err
	}
	if conditions.Valid {
		_ = json.Unmarshal([]byte(conditions.String), &p.Conditions)
	}
	if medications.Valid {
		_ = json.Unmarshal([]byte(medications.String), &p.Medications)
	}
	return &p, nil
}

func (r *Repository) All(ctx context.Context) ([]Patient, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+patientColumns+" FROM patients ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int) (*Patient, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+patientColumns+" FROM patients WHERE id = ?", id)
	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, p Patient) error {
	conditions, _ := json.Marshal(p.Conditions)
	medications, _ := json.Marshal(p.Medications)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO patients (id, name, age, birth_date, gender, telecom, conditions, medications) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Age, p.BirthDate, p.Gender, p.Telecom, string(conditions), string(medications))
	return err
}

// Update overwrites the patient row and reports how many rows matched.
func (r *Repository) Update(ctx context.Context, p Patient) (int64, error) {
	conditions, _ := json.Marshal(p.Conditions)
	medications, _ := json.Marshal(p.Medications)
	res, err := r.db.ExecContext(ctx,
		"UPDATE patients SET name = ?, age = ?, birth_date = ?, gender = ?, telecom = ?, conditions = ?, medications = ? WHERE id = ?",
		p.Name, p.Age, p.BirthDate, p.Gender, p.Telecom, string(conditions), string(medications), p.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM patients WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
