package memory

import (
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	"github.com/riskibarqy/hr-admin/internal/domain/employee"
)

const EmployeeIDDemo = "emp-demo-0001"

func SeedEmployees() []employee.Employee {
	return []employee.Employee{
		{
			ID:        EmployeeIDDemo,
			FirstName: "Ayu",
			LastName:  "Lestari",
			Phone:     "+6281234567890",
			Email:     "ayu.lestari@example.com",
			Gender:    "female",
			Username:  "ayu.lestari",
			WorkEmail: "ayu.lestari@corp.example.com",
			JobType:   "full-time",
			CreatedAt: time.Date(2024, 4, 29, 2, 0, 0, 0, time.UTC),
		},
	}
}

// SeedAttendance returns one working week for the demo employee: on time,
// late, still clocked in, absent and early.
func SeedAttendance(loc *time.Location) []attendance.RawRecord {
	if loc == nil {
		loc = time.UTC
	}
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, loc) }
	at := func(d, h, m int) *time.Time {
		t := time.Date(2024, 5, d, h, m, 0, 0, loc)
		return &t
	}

	return []attendance.RawRecord{
		{EmployeeID: EmployeeIDDemo, Date: day(6), CheckIn: at(6, 8, 55), CheckOut: at(6, 17, 5)},
		{EmployeeID: EmployeeIDDemo, Date: day(7), CheckIn: at(7, 9, 15), CheckOut: at(7, 17, 30)},
		{EmployeeID: EmployeeIDDemo, Date: day(8), CheckIn: at(8, 9, 0)},
		{EmployeeID: EmployeeIDDemo, Date: day(9)},
		{EmployeeID: EmployeeIDDemo, Date: day(10), CheckIn: at(10, 8, 30), CheckOut: at(10, 16, 45)},
	}
}
