package postgres

import (
	"database/sql"
	"time"
)

// employeeRow maps the employees table. Readonly columns are filled in by
// the database and never written on insert.
type employeeRow struct {
	ID               int64          `db:"id,readonly"`
	PublicID         string         `db:"public_id"`
	FirstName        string         `db:"first_name"`
	LastName         string         `db:"last_name"`
	Phone            string         `db:"phone"`
	Email            string         `db:"email"`
	Gender           string         `db:"gender"`
	ProfileImageURL  sql.NullString `db:"profile_image_url"`
	ProfileImageSize sql.NullInt64  `db:"profile_image_size"`
	ProfileImageMIME sql.NullString `db:"profile_image_mime"`
	Username         string         `db:"username"`
	WorkEmail        string         `db:"work_email"`
	JobType          string         `db:"job_type"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        sql.NullTime   `db:"deleted_at,readonly"`
}

type attendanceRow struct {
	ID               int64        `db:"id,readonly"`
	EmployeePublicID string       `db:"employee_public_id"`
	WorkDate         time.Time    `db:"work_date"`
	CheckInAt        sql.NullTime `db:"check_in_at"`
	CheckOutAt       sql.NullTime `db:"check_out_at"`
	CreatedAt        time.Time    `db:"created_at"`
}
