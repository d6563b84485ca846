package postgres

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/employee"
)

var employeeRowColumns = []string{
	"id", "public_id", "first_name", "last_name", "phone", "email", "gender",
	"profile_image_url", "profile_image_size", "profile_image_mime",
	"username", "work_email", "job_type", "created_at", "updated_at", "deleted_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestEmployeeRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	createdAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	item := employee.Employee{
		ID:           "emp-1",
		FirstName:    "Usman",
		LastName:     "Ali",
		Phone:        "+14155550100",
		Email:        "usman@example.com",
		Gender:       "male",
		ProfileImage: &asset.UploadedAsset{URL: "https://cdn.example.com/a.png", SizeBytes: 2048, MIMEType: "image/png"},
		Username:     "usman.ali",
		WorkEmail:    "usman@corp.example.com",
		JobType:      "full-time",
		CreatedAt:    createdAt,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees (public_id, first_name, last_name, phone, email, gender, profile_image_url, profile_image_size, profile_image_mime, username, work_email, job_type, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)")).
		WithArgs("emp-1", "Usman", "Ali", "+14155550100", "usman@example.com", "male",
			"https://cdn.example.com/a.png", int64(2048), "image/png",
			"usman.ali", "usman@corp.example.com", "full-time", createdAt, createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(t.Context(), item); err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "employees_work_email_key"})

	err := repo.Create(t.Context(), employee.Employee{ID: "emp-2", Username: "dup", WorkEmail: "dup@corp.example.com"})
	if !errors.Is(err, employee.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	createdAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(employeeRowColumns).
		AddRow(int64(7), "emp-1", "Usman", "Ali", "+14155550100", "usman@example.com", "male",
			nil, nil, nil, "usman.ali", "usman@corp.example.com", "contract", createdAt, createdAt, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, public_id, first_name, last_name, phone, email, gender, profile_image_url, profile_image_size, profile_image_mime, username, work_email, job_type, created_at, updated_at, deleted_at FROM employees WHERE public_id = $1 AND deleted_at IS NULL")).
		WithArgs("emp-1").
		WillReturnRows(rows)

	got, exists, err := repo.GetByID(t.Context(), "emp-1")
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if !exists {
		t.Fatalf("expected employee to exist")
	}
	if got.ID != "emp-1" || got.JobType != "contract" || got.ProfileImage != nil {
		t.Fatalf("unexpected employee: %+v", got)
	}
}

func TestEmployeeRepository_GetByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("FROM employees").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	_, exists, err := repo.GetByID(t.Context(), "nope")
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if exists {
		t.Fatalf("expected missing employee")
	}
}

func TestAttendanceRepository_ListByEmployee(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db, time.UTC)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)
	checkOut := time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "employee_public_id", "work_date", "check_in_at", "check_out_at", "created_at"}).
		AddRow(int64(1), "emp-1", from, checkIn, checkOut, from).
		AddRow(int64(2), "emp-1", to, nil, nil, to)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_records WHERE employee_public_id = $1 AND work_date BETWEEN $2 AND $3 ORDER BY work_date, id")).
		WithArgs("emp-1", "2024-05-01", "2024-05-02").
		WillReturnRows(rows)

	got, err := repo.ListByEmployee(t.Context(), "emp-1", from, to)
	if err != nil {
		t.Fatalf("list attendance: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].CheckIn == nil || !got[0].CheckIn.Equal(checkIn) {
		t.Fatalf("unexpected check-in: %v", got[0].CheckIn)
	}
	if got[1].CheckIn != nil || got[1].CheckOut != nil {
		t.Fatalf("expected second day to be empty, got %+v", got[1])
	}
}
