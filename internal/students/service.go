package students

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ms-students/internal/models"
)

// StudentDBLayer is what the service needs from storage.
type StudentDBLayer interface {
	CreateStudent(student *models.Student) error
	GetStudentByRollNumber(rollNumber string) (*models.Student, error)
	ListStudents() ([]models.Student, error)
	UpdateStudent(student *models.Student) error
	DeleteStudent(rollNumber string) error
}

type StudentService struct {
	DB       StudentDBLayer
	validate *validator.Validate
}

func NewStudentService(db StudentDBLayer) *StudentService {
	return &StudentService{
		DB:       db,
		validate: validator.New(),
	}
}

// CreateStudent validates the request, inserts the row, then re-reads it
// so the caller gets the generated id and created_at.
//
// The presence check treats a zero age the same as a missing one, which
// also rejects a legitimate age of 0. Kept as-is pending a product call.
func (s *StudentService) CreateStudent(req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}

	student := &models.Student{
		Name:       req.Name,
		Age:        req.Age,
		RollNumber: req.RollNumber,
		City:       req.City,
		CreatedAt:  time.Now(),
	}

	if err := s.DB.CreateStudent(student); err != nil {
		return nil, err
	}

	created, err := s.DB.GetStudentByRollNumber(req.RollNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to read back created student %s: %w", req.RollNumber, err)
	}
	return created, nil
}

func (s *StudentService) GetStudent(rollNumber string) (*models.Student, error) {
	return s.DB.GetStudentByRollNumber(rollNumber)
}

func (s *StudentService) ListStudents() ([]models.Student, error) {
	return s.DB.ListStudents()
}

// UpdateStudent merges the non-nil request fields into the stored record
// and persists the result. Absent fields keep their prior values.
func (s *StudentService) UpdateStudent(rollNumber string, req models.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.DB.GetStudentByRollNumber(rollNumber)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Age != nil {
		student.Age = *req.Age
	}
	if req.City != nil {
		student.City = *req.City
	}

	if err := s.DB.UpdateStudent(student); err != nil {
		return nil, fmt.Errorf("failed to update student %s: %w", rollNumber, err)
	}
	return student, nil
}

// DeleteStudent removes the row and returns what was deleted.
func (s *StudentService) DeleteStudent(rollNumber string) (*models.Student, error) {
	student, err := s.DB.GetStudentByRollNumber(rollNumber)
	if err != nil {
		return nil, err
	}

	if err := s.DB.DeleteStudent(rollNumber); err != nil {
		return nil, fmt.Errorf("failed to delete student %s: %w", rollNumber, err)
	}
	return student, nil
}

func asValidationError(err error) error {
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
	}
	return &models.ValidationError{Fields: fields}
}
