package checklist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/idilsaglam/lovedhomes/internal/api"
	"github.com/idilsaglam/lovedhomes/internal/checklist"
	"github.com/idilsaglam/lovedhomes/internal/model"
)

// fakeServer keeps one checklist tree in memory and speaks the
// /api/properties/{id}/checklist protocol.
type fakeServer struct {
	mu       sync.Mutex
	tree     []model.Node
	nextID   int
	embed    bool
	requests map[string]int
	lastPath []string
}

func newFakeServer(embed bool, tree ...model.Node) *fakeServer {
	return &fakeServer{tree: tree, nextID: 100, embed: embed, requests: map[string]int{}}
}

func (f *fakeServer) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[method]
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[r.Method]++
	if r.URL.Path != "/api/properties/1/checklist" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		f.write(w, true)
	case http.MethodPost:
		var req struct {
			Title      string     `json:"title"`
			Kind       model.Kind `json:"kind"`
			ParentPath []int      `json:"parent_path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ParentPath == nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.nextID++
		n := model.Node{ID: model.ID(strconv.Itoa(f.nextID)), Title: req.Title, Kind: req.Kind}
		var ok bool
		if f.tree, ok = insert(f.tree, req.ParentPath, n); !ok {
			http.Error(w, "no such parent", http.StatusNotFound)
			return
		}
		f.write(w, false)
	case http.MethodPatch, http.MethodDelete:
		raw := r.URL.Query().Get("path")
		f.lastPath = append(f.lastPath, raw)
		p, err := model.ParsePath(raw)
		if err != nil || p.IsRoot() {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}
		var ok bool
		if r.Method == http.MethodDelete {
			f.tree, ok = remove(f.tree, p)
		} else {
			var req struct {
				Title string `json:"title"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			ok = rename(f.tree, p, req.Title)
		}
		if !ok {
			http.Error(w, "no such node", http.StatusNotFound)
			return
		}
		f.write(w, false)
	}
}

func (f *fakeServer) write(w http.ResponseWriter, read bool) {
	switch {
	case read:
		_ = json.NewEncoder(w).Encode(f.tree)
	case f.embed:
		_ = json.NewEncoder(w).Encode(map[string]any{"checklist": f.tree})
	default:
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func insert(nodes []model.Node, parent []int, n model.Node) ([]model.Node, bool) {
	if len(parent) == 0 {
		return append(nodes, n), true
	}
	i := parent[0]
	if i < 0 || i >= len(nodes) || nodes[i].Kind != model.KindFolder {
		return nodes, false
	}
	children, ok := insert(nodes[i].Children, parent[1:], n)
	nodes[i].Children = children
	return nodes, ok
}

func remove(nodes []model.Node, p model.Path) ([]model.Node, bool) {
	i := p[0]
	if i < 0 || i >= len(nodes) {
		return nodes, false
	}
	if len(p) == 1 {
		return append(nodes[:i:i], nodes[i+1:]...), true
	}
	children, ok := remove(nodes[i].Children, p[1:])
	nodes[i].Children = children
	return nodes, ok
}

func rename(nodes []model.Node, p model.Path, title string) bool {
	i := p[0]
	if i < 0 || i >= len(nodes) {
		return false
	}
	if len(p) == 1 {
		nodes[i].Title = title
		return true
	}
	return rename(nodes[i].Children, p[1:], title)
}

func newSession(c *qt.C, f *fakeServer, opts ...checklist.Option) *checklist.Session {
	srv := httptest.NewServer(f)
	c.Cleanup(srv.Close)
	prop := model.Property{ID: "1", Name: "Casa Mare Blu"}
	return checklist.NewSession(api.New(srv.URL), prop, nil, opts...)
}

func titles(nodes []model.Node) []string {
	var out []string
	model.Walk(nodes, func(_ model.Path, n model.Node) { out = append(out, n.Title) })
	return out
}

func sampleTree() []model.Node {
	return []model.Node{
		{ID: "1", Title: "Cucina", Kind: model.KindFolder, Children: []model.Node{
			{ID: "2", Title: "Frigo", Kind: model.KindItem},
			{ID: "3", Title: "Forno", Kind: model.KindItem},
		}},
		{ID: "4", Title: "Giardino", Kind: model.KindItem},
		{ID: "5", Title: "Camera", Kind: model.KindFolder},
	}
}

func TestScenario(t *testing.T) {
	for _, embed := range []bool{true, false} {
		t.Run("embed="+strconv.FormatBool(embed), func(t *testing.T) {
			c := qt.New(t)
			f := newFakeServer(embed)
			s := newSession(c, f)
			ctx := context.Background()

			nodes, err := s.Load(ctx)
			c.Assert(err, qt.IsNil)
			c.Assert(nodes, qt.HasLen, 0)

			nodes, err = s.Add(ctx, model.Ref{}, model.KindItem)
			c.Assert(err, qt.IsNil)
			c.Assert(titles(nodes), qt.DeepEquals, []string{"Nuovo elemento"})
			id := nodes[0].ID

			nodes, changed, err := s.Rename(ctx, model.RefID(id), "  Pulizie ")
			c.Assert(err, qt.IsNil)
			c.Assert(changed, qt.IsTrue)
			c.Assert(titles(nodes), qt.DeepEquals, []string{"Pulizie"})

			nodes, err = s.Delete(ctx, model.RefID(id))
			c.Assert(err, qt.IsNil)
			c.Assert(nodes, qt.HasLen, 0)

			// One read for Load, plus one per mutation when nothing is embedded.
			wantGets := 1
			if !embed {
				wantGets = 4
			}
			c.Assert(f.count(http.MethodGet), qt.Equals, wantGets)
		})
	}
}

func TestAdd(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("folder at root keeps sibling order", func(c *qt.C) {
		f := newFakeServer(true, sampleTree()...)
		s := newSession(c, f)
		_, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)

		nodes, err := s.Add(ctx, model.Ref{}, model.KindFolder)
		c.Assert(err, qt.IsNil)
		c.Assert(model.Count(nodes), qt.Equals, 6)
		c.Assert(nodes[3].Title, qt.Equals, "Nuova cartella")
		c.Assert(nodes[3].Kind, qt.Equals, model.KindFolder)
		c.Assert(titles(nodes[:3]), qt.DeepEquals, titles(sampleTree()))
	})

	c.Run("item inside a folder by id", func(c *qt.C) {
		f := newFakeServer(false, sampleTree()...)
		s := newSession(c, f)
		_, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)

		nodes, err := s.Add(ctx, model.RefID("1"), model.KindItem)
		c.Assert(err, qt.IsNil)
		c.Assert(titles(nodes[0].Children), qt.DeepEquals, []string{"Frigo", "Forno", "Nuovo elemento"})
	})

	c.Run("unknown kind becomes item", func(c *qt.C) {
		f := newFakeServer(true)
		s := newSession(c, f)
		nodes, err := s.Add(ctx, model.Ref{}, model.Kind("todo"))
		c.Assert(err, qt.IsNil)
		c.Assert(nodes[0].Kind, qt.Equals, model.KindItem)
	})

	c.Run("item parent is rejected without a request", func(c *qt.C) {
		f := newFakeServer(true, sampleTree()...)
		s := newSession(c, f)
		_, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)

		_, err = s.Add(ctx, model.RefID("4"), model.KindItem)
		c.Assert(err, qt.ErrorIs, model.ErrNotFolder)
		_, err = s.Add(ctx, model.RefID("404"), model.KindItem)
		c.Assert(err, qt.ErrorIs, model.ErrNodeNotFound)
		c.Assert(f.count(http.MethodPost), qt.Equals, 0)
	})

	c.Run("flat mode adds root items only", func(c *qt.C) {
		f := newFakeServer(true, sampleTree()...)
		s := newSession(c, f, checklist.WithFlat(true))
		nodes, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)
		c.Assert(titles(nodes), qt.DeepEquals, []string{"Cucina", "Giardino", "Camera"})

		nodes, err = s.Add(ctx, model.RefID("1"), model.KindFolder)
		c.Assert(err, qt.IsNil)
		c.Assert(nodes, qt.HasLen, 4)
		c.Assert(nodes[3].Title, qt.Equals, "Nuovo elemento")
		for _, n := range nodes {
			c.Assert(n.Kind, qt.Equals, model.KindItem)
			c.Assert(n.Children, qt.IsNil)
		}
	})
}

func TestRename(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	f := newFakeServer(true, sampleTree()...)
	s := newSession(c, f)
	_, err := s.Load(ctx)
	c.Assert(err, qt.IsNil)

	_, changed, err := s.Rename(ctx, model.RefID("3"), "  Forno ")
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsFalse)
	c.Assert(f.count(http.MethodPatch), qt.Equals, 0)

	nodes, changed, err := s.Rename(ctx, model.RefID("3"), "Forno a legna")
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsTrue)
	c.Assert(nodes[0].Children[1].Title, qt.Equals, "Forno a legna")
	c.Assert(f.lastPath, qt.DeepEquals, []string{"0,1"})

	nodes, changed, err = s.Rename(ctx, model.RefPath(model.Path{1}), "Orto")
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsTrue)
	c.Assert(nodes[1].Title, qt.Equals, "Orto")

	_, _, err = s.Rename(ctx, model.RefPath(model.Path{1, 0}), "x")
	c.Assert(err, qt.ErrorIs, model.ErrNotFolder)

	patches := f.count(http.MethodPatch)
	_, changed, err = s.Rename(ctx, model.RefPath(model.Path{}), "Casa")
	c.Assert(err, qt.ErrorIs, model.ErrInvalidPath)
	c.Assert(changed, qt.IsFalse)
	c.Assert(f.count(http.MethodPatch), qt.Equals, patches)
}

func TestDelete(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("ids stay valid after earlier siblings go", func(c *qt.C) {
		f := newFakeServer(false, sampleTree()...)
		s := newSession(c, f)
		_, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)

		_, err = s.Delete(ctx, model.RefID("1"))
		c.Assert(err, qt.IsNil)
		nodes, err := s.Delete(ctx, model.RefID("5"))
		c.Assert(err, qt.IsNil)

		// Camera moved from [2] to [1] after Cucina was removed.
		c.Assert(f.lastPath, qt.DeepEquals, []string{"0", "1"})
		c.Assert(titles(nodes), qt.DeepEquals, []string{"Giardino"})

		fresh, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)
		_, found := model.PathOf(fresh, "5")
		c.Assert(found, qt.IsFalse)
	})

	c.Run("nested node", func(c *qt.C) {
		f := newFakeServer(true, sampleTree()...)
		s := newSession(c, f)
		_, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)

		nodes, err := s.Delete(ctx, model.RefID("2"))
		c.Assert(err, qt.IsNil)
		c.Assert(titles(nodes), qt.DeepEquals, []string{"Cucina", "Forno", "Giardino", "Camera"})
	})

	c.Run("root and missing nodes", func(c *qt.C) {
		f := newFakeServer(true, sampleTree()...)
		s := newSession(c, f)
		_, err := s.Load(ctx)
		c.Assert(err, qt.IsNil)

		_, err = s.Delete(ctx, model.Ref{})
		c.Assert(err, qt.ErrorIs, model.ErrInvalidPath)
		_, err = s.Delete(ctx, model.RefPath(model.Path{9}))
		c.Assert(err, qt.ErrorIs, model.ErrNodeNotFound)
		c.Assert(f.count(http.MethodDelete), qt.Equals, 0)
	})
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	f := newFakeServer(false, sampleTree()...)
	s := newSession(c, f)
	_, err := s.Load(ctx)
	c.Assert(err, qt.IsNil)

	var wg sync.WaitGroup
	for _, id := range []model.ID{"4", "5", "1"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Delete(ctx, model.RefID(id))
			c.Check(err, qt.IsNil)
		}()
	}
	wg.Wait()

	c.Assert(s.Nodes(), qt.HasLen, 0)
	c.Assert(f.count(http.MethodDelete), qt.Equals, 3)
}

func TestNodesIsACopy(t *testing.T) {
	c := qt.New(t)
	f := newFakeServer(true, sampleTree()...)
	s := newSession(c, f)
	_, err := s.Load(context.Background())
	c.Assert(err, qt.IsNil)

	nodes := s.Nodes()
	nodes[0].Children[0].Title = "changed"
	c.Assert(s.Nodes()[0].Children[0].Title, qt.Equals, "Frigo")
}
