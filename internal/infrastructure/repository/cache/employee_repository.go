package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/employee"
	basecache "github.com/riskibarqy/hr-admin/internal/platform/cache"
)

const employeeKeyPrefix = "employee:id:"

// EmployeeRepository caches lookups by id. Misses are cached too, so
// Create evicts the id it writes, even when the write reports a duplicate.
type EmployeeRepository struct {
	next  employee.Repository
	cache *basecache.Store[cachedEmployeeByID]
}

func NewEmployeeRepository(next employee.Repository, ttl time.Duration) *EmployeeRepository {
	return &EmployeeRepository{next: next, cache: basecache.NewStore[cachedEmployeeByID](ttl)}
}

func (r *EmployeeRepository) Create(ctx context.Context, item employee.Employee) error {
	err := r.next.Create(ctx, item)
	r.cache.Delete(employeeKeyPrefix + item.ID)
	return err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, employeeID string) (employee.Employee, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, employeeKeyPrefix+employeeID, func(ctx context.Context) (cachedEmployeeByID, error) {
		item, exists, err := r.next.GetByID(ctx, employeeID)
		if err != nil {
			return cachedEmployeeByID{}, err
		}
		return cachedEmployeeByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return employee.Employee{}, false, err
	}

	return copyEmployee(cached.value), cached.exists, nil
}

type cachedEmployeeByID struct {
	value  employee.Employee
	exists bool
}

func copyEmployee(e employee.Employee) employee.Employee {
	if e.ProfileImage != nil {
		img := *e.ProfileImage
		e.ProfileImage = &img
	}
	return e
}
