package employee

import (
	"time"
)

// Employee maps the employees table. EmployeeID is always assigned by the
// database.
type Employee struct {
	EmployeeID int64     `gorm:"column:employee_id;primaryKey;autoIncrement"`
	FirstName  string    `gorm:"column:first_name;size:50"`
	LastName   string    `gorm:"column:last_name;size:50"`
	Email      string    `gorm:"column:email;size:100"`
	HireDate   time.Time `gorm:"column:hire_date"`
	JobTitle   string    `gorm:"column:job_title;size:50"`
}

func (Employee) TableName() string {
	return TableName
}

const TableName = "employees"
