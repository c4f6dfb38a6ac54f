package student_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-students/internal/logger"
	"ms-students/internal/models"
	"ms-students/internal/utils"
)

// StudentService is the service surface the handlers call.
type StudentService interface {
	CreateStudent(req models.CreateStudentRequest) (*models.Student, error)
	GetStudent(rollNumber string) (*models.Student, error)
	ListStudents() ([]models.Student, error)
	UpdateStudent(rollNumber string, req models.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(rollNumber string) (*models.Student, error)
}

type Handler struct {
	StudentService StudentService
	Logger         *logger.Logger
}

func NewHandler(service StudentService, log *logger.Logger) *Handler {
	return &Handler{
		StudentService: service,
		Logger:         log,
	}
}

// RegisterRoutes mounts all student endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ServiceInfo)
	r.Route("/students", func(r chi.Router) {
		r.Get("/", h.ListStudents)
		r.Post("/", h.CreateStudent)
		r.Get("/{rollNumber}", h.GetStudent)
		r.Put("/{rollNumber}", h.UpdateStudent)
		r.Delete("/{rollNumber}", h.DeleteStudent)
	})
}

// ServiceInfo answers GET / with a service description and the endpoint
// listing.
func (h *Handler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"service": "students-service",
		"endpoints": map[string]string{
			"GET /students":                 "list all students",
			"GET /students/{rollnumber}":    "get one student",
			"POST /students":                "create a student",
			"PUT /students/{rollnumber}":    "update a student",
			"DELETE /students/{rollnumber}": "delete a student",
		},
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Students CRUD service", info))
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.StudentService.ListStudents()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListStudents: %v", err))
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.ListResponse(students, len(students)))
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	rollNumber := chi.URLParam(r, "rollNumber")

	student, err := h.StudentService.GetStudent(rollNumber)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetStudent: rollnumber=%s: %v", rollNumber, err))
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: student})
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateStudent: invalid body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body"))
		return
	}

	student, err := h.StudentService.CreateStudent(req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateStudent: rollnumber=%s: %v", req.RollNumber, err))
		h.writeError(w, err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateStudent: created rollnumber=%s", student.RollNumber))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Student created successfully", student))
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	rollNumber := chi.URLParam(r, "rollNumber")

	var req models.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateStudent: invalid body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body"))
		return
	}

	student, err := h.StudentService.UpdateStudent(rollNumber, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateStudent: rollnumber=%s: %v", rollNumber, err))
		h.writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Student updated successfully", student))
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	rollNumber := chi.URLParam(r, "rollNumber")

	student, err := h.StudentService.DeleteStudent(rollNumber)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteStudent: rollnumber=%s: %v", rollNumber, err))
		h.writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Student deleted successfully", student))
}

// writeError maps the error taxonomy onto status codes. Internal detail
// stays in the logs; clients only see a short description.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(verr.Error()))
	case errors.Is(err, models.ErrStudentNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Student not found"))
	case errors.Is(err, models.ErrDuplicateRollNumber):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("Rollnumber already exists"))
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Internal server error"))
	}
}
