package student_api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-students/internal/logger"
	"ms-students/internal/models"
	"ms-students/internal/students"
	studentdb "ms-students/internal/students/db"
	"ms-students/internal/students/student_api"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

func setupServer(t *testing.T) (*chi.Mux, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second pooled connection would see a fresh empty :memory: DB.
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, studentdb.Migrate(bunDB))

	service := students.NewStudentService(&studentdb.DB{Bun: bunDB})
	handler := student_api.NewHandler(service, logger.NewLogger())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, bunDB
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func createBody(name string, age int, rollNumber, city string) map[string]interface{} {
	return map[string]interface{}{
		"name":       name,
		"age":        age,
		"rollnumber": rollNumber,
		"city":       city,
	}
}

func TestServiceInfo(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	rec, env := doRequest(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data)
}

func TestCreateStudent(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	rec, env := doRequest(t, r, http.MethodPost, "/students", createBody("Alice", 21, "R-001", "Colombo"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var created models.Student
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.ID > 0)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, 21, created.Age)
	assert.Equal(t, "R-001", created.RollNumber)
	assert.Equal(t, "Colombo", created.City)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateStudentMissingField(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	body := createBody("Alice", 21, "R-001", "Colombo")
	delete(body, "city")

	rec, env := doRequest(t, r, http.MethodPost, "/students", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	// Nothing was persisted.
	_, listEnv := doRequest(t, r, http.MethodGet, "/students", nil)
	require.NotNil(t, listEnv.Count)
	assert.Equal(t, 0, *listEnv.Count)
}

func TestCreateStudentDuplicateRollNumber(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	rec, _ := doRequest(t, r, http.MethodPost, "/students", createBody("Alice", 21, "R-001", "Colombo"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doRequest(t, r, http.MethodPost, "/students", createBody("Bob", 22, "R-001", "Kandy"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)

	// The original record is unchanged.
	rec, env = doRequest(t, r, http.MethodGet, "/students/R-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Student
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Colombo", got.City)
}

func TestGetStudentNotFound(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	rec, env := doRequest(t, r, http.MethodGet, "/students/never-created", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestListStudentsOrderedByRollNumber(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	for _, rn := range []string{"R-300", "R-100", "R-200"} {
		rec, _ := doRequest(t, r, http.MethodPost, "/students", createBody("Student "+rn, 20, rn, "Galle"))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := doRequest(t, r, http.MethodGet, "/students", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 3, *env.Count)

	var listed []models.Student
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Equal(t, 3, len(listed))
	assert.Equal(t, "R-100", listed[0].RollNumber)
	assert.Equal(t, "R-200", listed[1].RollNumber)
	assert.Equal(t, "R-300", listed[2].RollNumber)
}

func TestUpdateStudentOnlyCity(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	rec, _ := doRequest(t, r, http.MethodPost, "/students", createBody("Alice", 21, "R-001", "Colombo"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doRequest(t, r, http.MethodPut, "/students/R-001", map[string]interface{}{"city": "Kandy"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Student
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, 21, updated.Age)
	assert.Equal(t, "Kandy", updated.City)

	// The merge is persisted, not just echoed.
	rec, env = doRequest(t, r, http.MethodGet, "/students/R-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "Kandy", updated.City)
}

func TestUpdateStudentNotFound(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	rec, env := doRequest(t, r, http.MethodPut, "/students/never-created", map[string]interface{}{"city": "Kandy"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestDeleteStudent(t *testing.T) {
	r, bunDB := setupServer(t)
	defer bunDB.Close()

	rec, _ := doRequest(t, r, http.MethodPost, "/students", createBody("Alice", 21, "R-001", "Colombo"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doRequest(t, r, http.MethodDelete, "/students/R-001", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var deleted models.Student
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, "Alice", deleted.Name)

	// Subsequent fetch and repeated delete both report not found.
	rec, _ = doRequest(t, r, http.MethodGet, "/students/R-001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = doRequest(t, r, http.MethodDelete, "/students/R-001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}
