package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"ms-students/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateStudent inserts a new student row. A unique-index rejection on
// roll_number comes back as models.ErrDuplicateRollNumber so callers can
// tell it apart from other store failures.
func (d *DB) CreateStudent(student *models.Student) error {
	_, err := d.Bun.NewInsert().Model(student).Exec(context.Background())
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateRollNumber
		}
		return err
	}
	return nil
}

func (d *DB) GetStudentByRollNumber(rollNumber string) (*models.Student, error) {
	var student models.Student
	err := d.Bun.NewSelect().
		Model(&student).
		Where("roll_number = ?", rollNumber).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

// ListStudents returns every student ordered by roll_number ascending.
func (d *DB) ListStudents() ([]models.Student, error) {
	students := make([]models.Student, 0)
	err := d.Bun.NewSelect().
		Model(&students).
		Order("roll_number ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return students, nil
}

// UpdateStudent persists the mutable fields only. Identity columns
// (id, roll_number, created_at) never change after creation.
func (d *DB) UpdateStudent(student *models.Student) error {
	_, err := d.Bun.NewUpdate().
		Model(student).
		Column("name", "age", "city").
		Where("roll_number = ?", student.RollNumber).
		Exec(context.Background())
	return err
}

func (d *DB) DeleteStudent(rollNumber string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Student)(nil)).
		Where("roll_number = ?", rollNumber).
		Exec(context.Background())
	return err
}

// isUniqueViolation recognizes the driver-specific unique-constraint
// signal: pq code 23505 in production, the sqlite message in tests.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
