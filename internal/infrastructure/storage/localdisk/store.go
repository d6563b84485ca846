package localdisk

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
)

// Store writes objects under a local directory and serves them from
// publicBaseURL. Intended for development and single-node deployments.
type Store struct {
	dir           string
	publicBaseURL string
}

func New(dir, publicBaseURL string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	base, err := url.Parse(strings.TrimSpace(publicBaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("public base url %q must be an absolute http(s) url", publicBaseURL)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}

	return &Store{
		dir:           abs,
		publicBaseURL: strings.TrimRight(base.String(), "/"),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Put(ctx context.Context, object asset.Object) (asset.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return asset.StoredObject{}, err
	}

	key := strings.Trim(filepath.ToSlash(filepath.Clean("/"+object.Key)), "/")
	if key == "" || key == "." {
		return asset.StoredObject{}, fmt.Errorf("object key is required")
	}
	target := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return asset.StoredObject{}, fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return asset.StoredObject{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(object.Data); err != nil {
		_ = tmp.Close()
		return asset.StoredObject{}, fmt.Errorf("write object %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return asset.StoredObject{}, fmt.Errorf("close object %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return asset.StoredObject{}, fmt.Errorf("move object %s: %w", key, err)
	}

	return asset.StoredObject{URL: s.publicBaseURL + "/" + key}, nil
}
