package role

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

var allRoles = []Role{RoleAdmin, RoleHR, RoleManager, RoleEmployee}

// Parse validates a role string received from the identity provider.
func Parse(raw string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, r := range allRoles {
		if r == candidate {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

func All() []Role {
	return append([]Role(nil), allRoles...)
}

type MenuItem struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
}
