package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/hr-admin/internal/domain/employee"
	employeemock "github.com/riskibarqy/hr-admin/internal/mocks/domain/employee"
)

func TestEmployeeRepository_GetByIDCachesHitsAndMisses(t *testing.T) {
	next := employeemock.NewRepository(t)
	repo := NewEmployeeRepository(next, time.Minute)

	next.On("GetByID", mock.Anything, "emp-1").
		Return(employee.Employee{ID: "emp-1", Username: "usman.ali"}, true, nil).Once()
	next.On("GetByID", mock.Anything, "missing").
		Return(employee.Employee{}, false, nil).Once()

	for range 2 {
		got, exists, err := repo.GetByID(t.Context(), "emp-1")
		if err != nil || !exists || got.Username != "usman.ali" {
			t.Fatalf("unexpected result: %+v exists=%v err=%v", got, exists, err)
		}
		if _, exists, err := repo.GetByID(t.Context(), "missing"); err != nil || exists {
			t.Fatalf("expected cached miss, exists=%v err=%v", exists, err)
		}
	}
}

func TestEmployeeRepository_CreateEvictsCachedMiss(t *testing.T) {
	next := employeemock.NewRepository(t)
	repo := NewEmployeeRepository(next, time.Minute)

	item := employee.Employee{ID: "emp-2", Username: "ayu", WorkEmail: "ayu@corp.example.com"}
	next.On("GetByID", mock.Anything, "emp-2").Return(employee.Employee{}, false, nil).Once()
	next.On("Create", mock.Anything, item).Return(nil).Once()
	next.On("GetByID", mock.Anything, "emp-2").Return(item, true, nil).Once()

	if _, exists, _ := repo.GetByID(t.Context(), "emp-2"); exists {
		t.Fatalf("expected miss before create")
	}
	if err := repo.Create(t.Context(), item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, exists, _ := repo.GetByID(t.Context(), "emp-2"); !exists {
		t.Fatalf("expected hit after create")
	}
}

func TestEmployeeRepository_DoesNotCacheErrors(t *testing.T) {
	next := employeemock.NewRepository(t)
	repo := NewEmployeeRepository(next, time.Minute)

	boom := errors.New("db down")
	next.On("GetByID", mock.Anything, "emp-3").Return(employee.Employee{}, false, boom).Twice()

	for range 2 {
		if _, _, err := repo.GetByID(t.Context(), "emp-3"); !errors.Is(err, boom) {
			t.Fatalf("expected db error, got %v", err)
		}
	}
}
