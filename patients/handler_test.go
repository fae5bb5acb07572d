package patients

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
	patients map[int]*Patient
	created  []Patient
	updated  []Patient
	deleted  []int
}

func (m *mockStore) All(ctx context.Context) ([]Patient, error) {
	out := make([]Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockStore) Get(ctx context.Context, id int) (*Patient, error) {
	if p, ok := m.patients[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *mockStore) Create(ctx context.Context, p Patient) error {
	m.created = append(m.created, p)
	return nil
}

func (m *mockStore) Update(ctx context.Context, p Patient) (int64, error) {
	m.updated = append(m.updated, p)
	if _, ok := m.patients[p.ID]; ok {
		return 1, nil
	}
	return 0, nil
}

func (m *mockStore) Delete(ctx context.Context, id int) (int64, error) {
	m.deleted = append(m.deleted, id)
	if _, ok := m.patients[id]; ok {
		return 1, nil
	}
	return 0, nil
}

func setupRouter(s Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(s).RegisterRoutes(r)
	return r
}

func TestList_byID(t *testing.T) {
	r := setupRouter(&mockStore{patients: map[int]*Patient{101: {ID: 101, Name: "Jane", Age: 40}}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/patients?id=101", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var got []Patient
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Jane" {
		t.Fatalf("got %v", got)
	}
}

func TestList_byID_notFoundYieldsEmptyArray(t *testing.T) {
	r := setupRouter(&mockStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/patients?id=7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Fatalf("want empty array, got %q", body)
	}
}

func TestCreate(t *testing.T) {
	store := &mockStore{}
	r := setupRouter(store)

	body, _ := json.Marshal(Patient{ID: 5, Name: "Ann", Conditions: []string{"Asthma"}})
	req := httptest.NewRequest(http.MethodPost, "/api/patients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201", w.Code)
	}
	if len(store.created) != 1 || store.created[0].Name != "Ann" {
		t.Fatalf("created = %v", store.created)
	}
}

func TestUpdate_missingID(t *testing.T) {
	r := setupRouter(&mockStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/patients", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestDelete(t *testing.T) {
	store := &mockStore{patients: map[int]*Patient{5: {ID: 5}}}
	r := setupRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/patients?id=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp map[string]int64
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["deletedCount"] != 1 {
		t.Fatalf("resp = %v", resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/patients", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing id: status %d, want 400", w.Code)
	}
}
