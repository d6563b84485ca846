package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/hr-admin/internal/domain/employee"
)

type EmployeeRepository struct {
	mu    sync.RWMutex
	items map[string]employee.Employee
}

func NewEmployeeRepository(seed []employee.Employee) *EmployeeRepository {
	items := make(map[string]employee.Employee, len(seed))
	for _, e := range seed {
		items[e.ID] = cloneEmployee(e)
	}
	return &EmployeeRepository{items: items}
}

func (r *EmployeeRepository) Create(_ context.Context, item employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("%w: id=%s", employee.ErrDuplicate, item.ID)
	}
	for _, existing := range r.items {
		if strings.EqualFold(existing.Username, item.Username) {
			return fmt.Errorf("%w: username=%s", employee.ErrDuplicate, item.Username)
		}
		if strings.EqualFold(existing.WorkEmail, item.WorkEmail) {
			return fmt.Errorf("%w: work_email=%s", employee.ErrDuplicate, item.WorkEmail)
		}
	}

	r.items[item.ID] = cloneEmployee(item)
	return nil
}

func (r *EmployeeRepository) GetByID(_ context.Context, employeeID string) (employee.Employee, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[employeeID]
	if !ok {
		return employee.Employee{}, false, nil
	}
	return cloneEmployee(e), true, nil
}

func cloneEmployee(e employee.Employee) employee.Employee {
	if e.ProfileImage != nil {
		img := *e.ProfileImage
		e.ProfileImage = &img
	}
	return e
}
