package employee

import (
	"bytes"
	"encoding/json"
	"time"
)

// Text is a request field taken as opaque text. A JSON string is unquoted,
// null is empty, and any other JSON value keeps its literal spelling, so
// {"job_title":123} is stored as "123".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(b)
	}
	return nil
}

// CreateEmployeeRequest carries the client supplied fields. They are passed
// to the database as-is.
type CreateEmployeeRequest struct {
	FirstName Text `json:"first_name"`
	LastName  Text `json:"last_name"`
	Email     Text `json:"email"`
	JobTitle  Text `json:"job_title"`
}

type EmployeeResponse struct {
	EmployeeID int64     `json:"employee_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	HireDate   time.Time `json:"hire_date"`
	JobTitle   string    `json:"job_title"`
}

type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}
