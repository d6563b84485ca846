package role

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type MenuTable map[Role][]MenuItem

func DefaultMenuTable() MenuTable {
	dashboard := MenuItem{Key: "dashboard", Label: "Dashboard", Path: "/dashboard"}
	return MenuTable{
		RoleAdmin: {
			dashboard,
			{Key: "employees", Label: "Employees", Path: "/employees"},
			{Key: "onboarding", Label: "Onboarding", Path: "/onboarding"},
			{Key: "attendance", Label: "Attendance", Path: "/attendance"},
			{Key: "settings", Label: "Settings", Path: "/settings"},
		},
		RoleHR: {
			dashboard,
			{Key: "employees", Label: "Employees", Path: "/employees"},
			{Key: "onboarding", Label: "Onboarding", Path: "/onboarding"},
			{Key: "attendance", Label: "Attendance", Path: "/attendance"},
		},
		RoleManager: {
			dashboard,
			{Key: "team-attendance", Label: "Team Attendance", Path: "/attendance/team"},
		},
		RoleEmployee: {
			dashboard,
			{Key: "my-attendance", Label: "My Attendance", Path: "/attendance/me"},
			{Key: "profile", Label: "Profile", Path: "/profile"},
		},
	}
}

// LoadMenuTable reads a YAML document keyed by role name. Roles missing
// from the file keep their default menu.
func LoadMenuTable(path string) (MenuTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu table: %w", err)
	}

	var raw map[string][]MenuItem
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("decode menu table: %w", err)
	}

	table := DefaultMenuTable()
	for name, items := range raw {
		r, err := Parse(name)
		if err != nil {
			return nil, fmt.Errorf("menu table: %w", err)
		}
		for i, item := range items {
			if strings.TrimSpace(item.Key) == "" || strings.TrimSpace(item.Path) == "" {
				return nil, fmt.Errorf("menu table: role %s item %d requires key and path", r, i)
			}
		}
		table[r] = items
	}
	return table, nil
}

// MenuResolver maps a role to its navigation menu.
type MenuResolver struct {
	table MenuTable
}

func NewMenuResolver(table MenuTable) *MenuResolver {
	if table == nil {
		table = DefaultMenuTable()
	}
	copied := make(MenuTable, len(table))
	for r, items := range table {
		copied[r] = append([]MenuItem(nil), items...)
	}
	return &MenuResolver{table: copied}
}

func (r *MenuResolver) Resolve(raw string) (Role, []MenuItem, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return "", nil, err
	}
	return parsed, append([]MenuItem(nil), r.table[parsed]...), nil
}
