// Package checklist edits the checklist tree of a single property.
//
// Callers address nodes by model.Ref. A Session turns ids into positional
// paths against its freshest tree right before each request, and runs one
// mutation at a time, so a path sent to the server always matches the tree
// it was computed from.
package checklist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/idilsaglam/lovedhomes/internal/api"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/pkg/log"
)

// Backend is the subset of the API client a Session needs.
type Backend interface {
	GetChecklist(ctx context.Context, propertyID model.ID) ([]model.Node, error)
	CreateNode(ctx context.Context, propertyID model.ID, req api.CreateNodeRequest) (api.Result, error)
	UpdateNode(ctx context.Context, propertyID model.ID, p model.Path, req api.UpdateNodeRequest) (api.Result, error)
	DeleteNode(ctx context.Context, propertyID model.ID, p model.Path) (api.Result, error)
}

type Option func(*Session)

// WithFlat projects every tree the server returns into a flat list of
// items. Folders and their children are dropped.
func WithFlat(flat bool) Option {
	return func(s *Session) { s.flat = flat }
}

// Session holds the last known server tree of one property.
type Session struct {
	backend  Backend
	property model.Property
	flat     bool
	l        log.Logger

	// op serializes Load and mutations; mu guards nodes.
	op    sync.Mutex
	mu    sync.RWMutex
	nodes []model.Node
}

func NewSession(backend Backend, property model.Property, l log.Logger, opts ...Option) *Session {
	if l == nil {
		l = log.NewNop()
	}
	s := &Session{backend: backend, property: property, l: l, nodes: []model.Node{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) Property() model.Property { return s.property }

func (s *Session) Flat() bool { return s.flat }

// Nodes returns a copy of the last known tree.
func (s *Session) Nodes() []model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Clone(s.nodes)
}

// Find returns the node ref points at in the last known tree.
func (s *Session) Find(ref model.Ref) (model.Node, model.Path, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolve(s.nodes, ref)
}

// Load replaces the local tree with the server's.
func (s *Session) Load(ctx context.Context) ([]model.Node, error) {
	s.op.Lock()
	defer s.op.Unlock()
	return s.refetch(ctx)
}

// Add creates a node with the default title for kind. parent must be the
// root or a folder. In flat mode every node is an item at the root.
func (s *Session) Add(ctx context.Context, parent model.Ref, kind model.Kind) ([]model.Node, error) {
	s.op.Lock()
	defer s.op.Unlock()

	if s.flat {
		parent, kind = model.Ref{}, model.KindItem
	}
	if kind != model.KindFolder {
		kind = model.KindItem
	}
	parentPath := model.Path{}
	if !parent.IsRoot() {
		n, p, err := s.Find(parent)
		if err != nil {
			return s.Nodes(), err
		}
		if !n.IsFolder() {
			return s.Nodes(), fmt.Errorf("add under %s: %w", parent, model.ErrNotFolder)
		}
		parentPath = p
	}

	req := api.CreateNodeRequest{Title: model.DefaultTitle(kind), Kind: kind, ParentPath: parentPath}
	res, err := s.backend.CreateNode(ctx, s.property.ID, req)
	if err != nil {
		s.l.Errorf(ctx, "checklist.Add %s under [%s]: %v", kind, parentPath, err)
		return s.Nodes(), err
	}
	s.l.Debugf(ctx, "checklist.Add: %s under [%s] (embedded=%t)", kind, parentPath, res.Embedded)
	return s.apply(ctx, res)
}

// Rename sets the title of target. The title is trimmed first; when it
// equals the last known server title nothing is sent and changed is false.
func (s *Session) Rename(ctx context.Context, target model.Ref, title string) (nodes []model.Node, changed bool, err error) {
	s.op.Lock()
	defer s.op.Unlock()

	n, p, err := s.Find(target)
	if err != nil {
		return s.Nodes(), false, err
	}
	if p.IsRoot() {
		return s.Nodes(), false, fmt.Errorf("rename: %w", model.ErrInvalidPath)
	}
	title = strings.TrimSpace(title)
	if title == n.Title {
		return s.Nodes(), false, nil
	}
	res, err := s.backend.UpdateNode(ctx, s.property.ID, p, api.UpdateNodeRequest{Title: title})
	if err != nil {
		s.l.Errorf(ctx, "checklist.Rename [%s]: %v", p, err)
		return s.Nodes(), false, err
	}
	s.l.Debugf(ctx, "checklist.Rename: [%s] %q -> %q", p, n.Title, title)
	nodes, err = s.apply(ctx, res)
	return nodes, true, err
}

// Delete removes target and, for folders, everything below it.
func (s *Session) Delete(ctx context.Context, target model.Ref) ([]model.Node, error) {
	s.op.Lock()
	defer s.op.Unlock()

	_, p, err := s.Find(target)
	if err != nil {
		return s.Nodes(), err
	}
	if p.IsRoot() {
		return s.Nodes(), fmt.Errorf("delete: %w", model.ErrInvalidPath)
	}
	res, err := s.backend.DeleteNode(ctx, s.property.ID, p)
	if err != nil {
		s.l.Errorf(ctx, "checklist.Delete [%s]: %v", p, err)
		return s.Nodes(), err
	}
	s.l.Debugf(ctx, "checklist.Delete: [%s]", p)
	return s.apply(ctx, res)
}

// apply stores an embedded tree or falls back to a full read.
func (s *Session) apply(ctx context.Context, res api.Result) ([]model.Node, error) {
	if !res.Embedded {
		return s.refetch(ctx)
	}
	s.store(res.Checklist)
	return s.Nodes(), nil
}

func (s *Session) refetch(ctx context.Context) ([]model.Node, error) {
	nodes, err := s.backend.GetChecklist(ctx, s.property.ID)
	if err != nil {
		s.l.Errorf(ctx, "checklist.Load %s: %v", s.property.ID, err)
		return s.Nodes(), err
	}
	s.store(nodes)
	return s.Nodes(), nil
}

func (s *Session) store(nodes []model.Node) {
	if s.flat {
		nodes = model.Flatten(nodes)
	}
	if nodes == nil {
		nodes = []model.Node{}
	}
	s.mu.Lock()
	s.nodes = nodes
	s.mu.Unlock()
}

func resolve(nodes []model.Node, ref model.Ref) (model.Node, model.Path, error) {
	if ref.IsRoot() {
		return model.Node{Kind: model.KindFolder, Children: nodes}, model.Path{}, nil
	}
	p := ref.Path
	if ref.ID != "" {
		var ok bool
		if p, ok = model.PathOf(nodes, ref.ID); !ok {
			return model.Node{}, nil, fmt.Errorf("%s: %w", ref, model.ErrNodeNotFound)
		}
	}
	n, err := model.Resolve(nodes, p)
	if err != nil {
		return model.Node{}, nil, fmt.Errorf("%s: %w", ref, err)
	}
	return n, p, nil
}
