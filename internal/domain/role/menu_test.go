package role

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMenuResolver_Resolve(t *testing.T) {
	resolver := NewMenuResolver(nil)

	r, items, err := resolver.Resolve(" HR ")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if r != RoleHR {
		t.Fatalf("unexpected role: %s", r)
	}
	if len(items) != 4 || items[0].Key != "dashboard" {
		t.Fatalf("unexpected hr menu: %+v", items)
	}

	items[0].Key = "mutated"
	_, again, _ := resolver.Resolve("hr")
	if again[0].Key != "dashboard" {
		t.Fatalf("resolver leaked its menu table")
	}

	if _, _, err := resolver.Resolve("superuser"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestLoadMenuTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	content := []byte(`
employee:
  - key: payslips
    label: Payslips
    path: /payslips
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadMenuTable(path)
	if err != nil {
		t.Fatalf("load menu table failed: %v", err)
	}
	if got := table[RoleEmployee]; len(got) != 1 || got[0].Path != "/payslips" {
		t.Fatalf("unexpected employee menu: %+v", got)
	}
	if got := table[RoleAdmin]; len(got) != len(DefaultMenuTable()[RoleAdmin]) {
		t.Fatalf("expected admin menu to keep defaults, got %+v", got)
	}
}

func TestLoadMenuTable_UnknownRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	if err := os.WriteFile(path, []byte("intern:\n  - key: a\n    path: /a\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadMenuTable(path); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
