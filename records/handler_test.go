package records

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type mockStore struct {
	byPatient map[int][]Record
	created   []Record
	nextID    int64
}

func (m *mockStore) All(ctx context.Context) ([]Record, error) {
	var out []Record
	for _, list := range m.byPatient {
		out = append(out, list...)
	}
	return out, nil
}

func (m *mockStore) ByPatient(ctx context.Context, patientID int) ([]Record, error) {
	list := m.byPatient[patientID]
	if list == nil {
		list = []Record{}
	}
	return list, nil
}

func (m *mockStore) Create(ctx context.Context, rec Record) (int64, error) {
	m.created = append(m.created, rec)
	m.nextID++
	return m.nextID, nil
}

func (m *mockStore) Update(ctx context.Context, rec Record) (int64, error) { return 1, nil }
func (m *mockStore) Delete(ctx context.Context, id int) (int64, error)    { return 1, nil }

func setupRouter(s Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(s).RegisterRoutes(r)
	return r
}

func TestList_byPatient(t *testing.T) {
	r := setupRouter(&mockStore{byPatient: map[int][]Record{
		101: {{ID: 1, PatientID: 101, Data: map[string]any{"type": "lab"}}},
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/records?patientId=101", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var got []Record
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Data["type"] != "lab" {
		t.Fatalf("got %v", got)
	}
}

func TestList_unknownPatientYieldsEmptyArray(t *testing.T) {
	r := setupRouter(&mockStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/records?patientId=9", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Fatalf("want empty array, got %q", body)
	}
}

func TestCreate_opaquePayloadRoundtrip(t *testing.T) {
	store := &mockStore{}
	r := setupRouter(store)

	body := []byte(`{"patientId":101,"data":{"type":"imaging","nested":{"modality":"MRI"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201", w.Code)
	}
	if len(store.created) != 1 {
		t.Fatalf("created = %v", store.created)
	}
	nested, _ := store.created[0].Data["nested"].(map[string]any)
	if nested["modality"] != "MRI" {
		t.Fatalf("payload not passed through: %v", store.created[0].Data)
	}
}

func TestUpdate_missingID(t *testing.T) {
	r := setupRouter(&mockStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/records", bytes.NewReader([]byte(`{"patientId":1}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}
