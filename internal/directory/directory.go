// Package directory lists properties and creates new ones.
package directory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/idilsaglam/lovedhomes/internal/api"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/pkg/log"
)

// ErrEmptyName is reported by Validate for blank names. Submit treats a
// blank name as a silent no-op instead.
var ErrEmptyName = errors.New("property name is empty")

// Backend is the subset of the API client the directory needs.
type Backend interface {
	ListProperties(ctx context.Context) ([]model.Property, error)
	CreateProperty(ctx context.Context, req api.CreatePropertyRequest) error
}

// Directory mirrors the server's property list. It never inserts locally:
// every creation is followed by a full reload.
type Directory struct {
	backend Backend
	l       log.Logger

	mu         sync.Mutex
	properties []model.Property
}

func New(backend Backend, l log.Logger) *Directory {
	if l == nil {
		l = log.NewNop()
	}
	return &Directory{backend: backend, l: l}
}

// Load replaces the local list with the server's, verbatim and in order.
func (d *Directory) Load(ctx context.Context) ([]model.Property, error) {
	props, err := d.backend.ListProperties(ctx)
	if err != nil {
		d.l.Errorf(ctx, "directory.Load: %v", err)
		return nil, err
	}
	d.mu.Lock()
	d.properties = props
	d.mu.Unlock()
	d.l.Debugf(ctx, "directory.Load: %d properties", len(props))
	return d.Properties(), nil
}

// Properties returns a copy of the last loaded list.
func (d *Directory) Properties() []model.Property {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Property, len(d.properties))
	copy(out, d.properties)
	return out
}

// Validate trims name and rejects blank ones.
func Validate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// Create submits a property and reloads the list. Blank names are ignored:
// created is false and no request is sent.
func (d *Directory) Create(ctx context.Context, name, photoURL string) (created bool, err error) {
	name, err = Validate(name)
	if err != nil {
		return false, nil
	}
	req := api.CreatePropertyRequest{Name: name}
	if photoURL != "" {
		req.PhotoURL = &photoURL
	}
	if err := d.backend.CreateProperty(ctx, req); err != nil {
		d.l.Errorf(ctx, "directory.Create %q: %v", name, err)
		return false, err
	}
	d.l.Infof(ctx, "directory.Create: created %q (photo=%t)", name, photoURL != "")
	if _, err := d.Load(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Submit creates the property described by f and clears f on success.
func (d *Directory) Submit(ctx context.Context, f *Form) (bool, error) {
	created, err := d.Create(ctx, f.Name, f.PhotoURL)
	if created {
		f.Reset()
	}
	return created, err
}
