package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel `bun:"table:students"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Name       string    `bun:"name,notnull,type:varchar(100)" json:"name"`
	Age        int       `bun:"age,notnull" json:"age"`
	RollNumber string    `bun:"roll_number,unique,notnull,type:varchar(50)" json:"rollnumber"`
	City       string    `bun:"city,notnull,type:varchar(100)" json:"city"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CreateStudentRequest is the POST /students body. All four fields are
// required; a zero age fails the presence check the same way the field
// being absent does.
type CreateStudentRequest struct {
	Name       string `json:"name" validate:"required"`
	Age        int    `json:"age" validate:"required"`
	RollNumber string `json:"rollnumber" validate:"required"`
	City       string `json:"city" validate:"required"`
}

// UpdateStudentRequest is the PUT /students/{rollnumber} body. Pointer
// fields distinguish "key absent" from "key present": absent fields keep
// the stored value.
type UpdateStudentRequest struct {
	Name *string `json:"name"`
	Age  *int    `json:"age"`
	City *string `json:"city"`
}
