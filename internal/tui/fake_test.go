package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	qt "github.com/frankban/quicktest"

	"github.com/idilsaglam/lovedhomes/internal/api"
	"github.com/idilsaglam/lovedhomes/internal/checklist"
	"github.com/idilsaglam/lovedhomes/internal/directory"
	"github.com/idilsaglam/lovedhomes/internal/model"
)

// backend is an in-memory server for one user's properties. Checklists are
// single level and every mutation embeds the new tree.
type backend struct {
	mu       sync.Mutex
	props    []model.Property
	lists    map[model.ID][]model.Node
	nextID   int
	requests map[string]int
}

func newBackend(props ...model.Property) *backend {
	return &backend{props: props, lists: map[model.ID][]model.Node{}, requests: map[string]int{}}
}

func (b *backend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[method+" "+path]
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests[r.Method+" "+r.URL.Path]++

	if r.URL.Path == "/api/properties" {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(b.props)
		case http.MethodPost:
			var req struct {
				Name     string  `json:"name"`
				PhotoURL *string `json:"photo_url"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			b.nextID++
			p := model.Property{ID: model.ID(strconv.Itoa(b.nextID)), Name: req.Name}
			if req.PhotoURL != nil {
				p.PhotoURL = *req.PhotoURL
			}
			b.props = append(b.props, p)
			w.WriteHeader(http.StatusCreated)
		}
		return
	}

	rest, ok := strings.CutPrefix(r.URL.Path, "/api/properties/")
	pid, ok2 := strings.CutSuffix(rest, "/checklist")
	if !ok || !ok2 || pid == "" {
		http.NotFound(w, r)
		return
	}
	id := model.ID(pid)
	nodes := b.lists[id]
	switch r.Method {
	case http.MethodGet:
		if nodes == nil {
			nodes = []model.Node{}
		}
		_ = json.NewEncoder(w).Encode(nodes)
		return
	case http.MethodPost:
		var req struct {
			Title string     `json:"title"`
			Kind  model.Kind `json:"kind"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.nextID++
		nodes = append(nodes, model.Node{ID: model.ID(strconv.Itoa(b.nextID)), Title: req.Title, Kind: req.Kind})
	case http.MethodPatch, http.MethodDelete:
		p, err := model.ParsePath(r.URL.Query().Get("path"))
		if err != nil || len(p) != 1 || p[0] >= len(nodes) {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}
		if r.Method == http.MethodDelete {
			nodes = append(nodes[:p[0]:p[0]], nodes[p[0]+1:]...)
		} else {
			var req struct {
				Title string `json:"title"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			nodes[p[0]].Title = req.Title
		}
	}
	b.lists[id] = nodes
	_ = json.NewEncoder(w).Encode(map[string]any{"checklist": nodes})
}

func newDeps(c *qt.C, b *backend) Deps {
	srv := httptest.NewServer(b)
	c.Cleanup(srv.Close)
	client := api.New(srv.URL)
	return Deps{
		Directory: directory.New(client, nil),
		Session: func(p model.Property) *checklist.Session {
			return checklist.NewSession(client, p, nil)
		},
		ReadClipboard: func() (string, error) { return "", nil },
		StartDir:      c.TempDir(),
	}
}

// run executes cmd and returns the messages it produces, dropping spinner
// ticks. Only commands that return without waiting may be passed in.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	}
	return []tea.Msg{msg}
}

var ctx = context.Background()
