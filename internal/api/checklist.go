package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/idilsaglam/lovedhomes/internal/model"
)

// CreateNodeRequest is the body of POST /api/properties/{id}/checklist.
type CreateNodeRequest struct {
	Title      string     `json:"title"`
	Kind       model.Kind `json:"kind"`
	ParentPath model.Path `json:"parent_path"`
}

// UpdateNodeRequest carries the fields to change on PATCH.
type UpdateNodeRequest struct {
	Title string `json:"title"`
}

// Result is what a mutating call returned. Embedded is false when the server
// did not include a checklist, in which case callers must re-fetch.
type Result struct {
	Checklist []model.Node
	Embedded  bool
}

func checklistPath(propertyID model.ID) string {
	return fmt.Sprintf("%s/%s/checklist", propertiesPath, url.PathEscape(string(propertyID)))
}

func pathQuery(p model.Path) url.Values {
	return url.Values{"path": {p.String()}}
}

// GetChecklist reads a property's checklist. The backend may answer with a
// bare array or with {"checklist": [...]}.
func (c *Client) GetChecklist(ctx context.Context, propertyID model.ID) ([]model.Node, error) {
	raw, err := c.do(ctx, http.MethodGet, checklistPath(propertyID), nil, nil)
	if err != nil {
		return nil, err
	}
	nodes, err := decodeChecklist(raw)
	if err != nil {
		return nil, fmt.Errorf("decode checklist of %s: %w", propertyID, err)
	}
	return nodes, nil
}

// CreateNode adds a node under req.ParentPath.
func (c *Client) CreateNode(ctx context.Context, propertyID model.ID, req CreateNodeRequest) (Result, error) {
	if req.ParentPath == nil {
		req.ParentPath = model.Path{}
	}
	raw, err := c.do(ctx, http.MethodPost, checklistPath(propertyID), nil, req)
	if err != nil {
		return Result{}, err
	}
	return decodeResult(raw), nil
}

// UpdateNode patches the node at p.
func (c *Client) UpdateNode(ctx context.Context, propertyID model.ID, p model.Path, req UpdateNodeRequest) (Result, error) {
	raw, err := c.do(ctx, http.MethodPatch, checklistPath(propertyID), pathQuery(p), req)
	if err != nil {
		return Result{}, err
	}
	return decodeResult(raw), nil
}

// DeleteNode removes the node at p.
func (c *Client) DeleteNode(ctx context.Context, propertyID model.ID, p model.Path) (Result, error) {
	raw, err := c.do(ctx, http.MethodDelete, checklistPath(propertyID), pathQuery(p), nil)
	if err != nil {
		return Result{}, err
	}
	return decodeResult(raw), nil
}

func decodeChecklist(raw []byte) ([]model.Node, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return []model.Node{}, nil
	case raw[0] == '[':
		var nodes []model.Node
		if err := json.Unmarshal(raw, &nodes); err != nil {
			return nil, err
		}
		return model.Normalize(nodes), nil
	case raw[0] == '{':
		var env struct {
			Checklist []model.Node `json:"checklist"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, err
		}
		return model.Normalize(env.Checklist), nil
	}
	return nil, fmt.Errorf("unexpected checklist payload %q", truncate(raw, 32))
}

// decodeResult never fails: anything other than an object with a non-null
// "checklist" array means "not embedded".
func decodeResult(raw []byte) Result {
	var env struct {
		Checklist json.RawMessage `json:"checklist"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(raw), &env); err != nil {
		return Result{}
	}
	body := bytes.TrimSpace(env.Checklist)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return Result{}
	}
	var nodes []model.Node
	if err := json.Unmarshal(body, &nodes); err != nil {
		return Result{}
	}
	if nodes == nil {
		nodes = []model.Node{}
	}
	return Result{Checklist: model.Normalize(nodes), Embedded: true}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
