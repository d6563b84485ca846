package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/employee"
	qb "github.com/riskibarqy/hr-admin/internal/platform/querybuilder"
)

type EmployeeRepository struct {
	db *sqlx.DB
}

func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, item employee.Employee) error {
	row := employeeRow{
		PublicID:  item.ID,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		Phone:     item.Phone,
		Email:     item.Email,
		Gender:    item.Gender,
		Username:  item.Username,
		WorkEmail: item.WorkEmail,
		JobType:   item.JobType,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.CreatedAt,
	}
	if img := item.ProfileImage; img != nil {
		row.ProfileImageURL = nullString(img.URL)
		row.ProfileImageSize = sql.NullInt64{Int64: img.SizeBytes, Valid: true}
		row.ProfileImageMIME = nullString(img.MIMEType)
	}

	query, args, err := qb.InsertModel("employees", row)
	if err != nil {
		return fmt.Errorf("build insert employee query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if col, ok := duplicateColumn(err); ok {
			if col == "" {
				col = "username or work_email"
			}
			return fmt.Errorf("%w: %s already registered", employee.ErrDuplicate, col)
		}
		return fmt.Errorf("insert employee: %w", err)
	}

	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, employeeID string) (employee.Employee, bool, error) {
	query, args, err := qb.SelectModel(employeeRow{}).From("employees").
		Where(
			qb.Eq("public_id", employeeID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return employee.Employee{}, false, fmt.Errorf("build get employee by id query: %w", err)
	}

	var row employeeRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return employee.Employee{}, false, nil
		}
		return employee.Employee{}, false, fmt.Errorf("get employee by id: %w", err)
	}

	return employeeFromRow(row), true, nil
}

func employeeFromRow(row employeeRow) employee.Employee {
	out := employee.Employee{
		ID:        row.PublicID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Phone:     row.Phone,
		Email:     row.Email,
		Gender:    row.Gender,
		Username:  row.Username,
		WorkEmail: row.WorkEmail,
		JobType:   row.JobType,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.ProfileImageURL.Valid {
		out.ProfileImage = &asset.UploadedAsset{
			URL:       row.ProfileImageURL.String,
			SizeBytes: row.ProfileImageSize.Int64,
			MIMEType:  nullStringValue(row.ProfileImageMIME),
		}
	}
	return out
}
