package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrNodeNotFound = errors.New("node not found")
	ErrNotFolder    = errors.New("node is not a folder")
)

// Path locates a node by sibling index from the root. The empty path is the
// root itself.
type Path []int

// ParsePath reads the comma-joined wire form ("0,2,1"). "" is the root.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, ",")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		p = append(p, i)
	}
	return p, nil
}

// String is the wire form used in the ?path= query parameter.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

// MarshalJSON always emits an array; the root is [] rather than null.
func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(p))
}

func (p Path) IsRoot() bool { return len(p) == 0 }

// Child returns a new path one level below p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Ref addresses a node. A non-empty ID wins; Path is the positional fallback
// for nodes the backend sent without an id. The zero Ref is the root.
type Ref struct {
	ID   ID
	Path Path
}

func RefID(id ID) Ref      { return Ref{ID: id} }
func RefPath(p Path) Ref   { return Ref{Path: p} }
func (r Ref) IsRoot() bool { return r.ID == "" && r.Path.IsRoot() }
func (r Ref) String() string {
	if r.ID != "" {
		return "id:" + string(r.ID)
	}
	return "path:" + r.Path.String()
}

// ParseRef reads the String form of a Ref. A bare value is an id; "path:"
// with nothing after it is the root.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "path:"); ok {
		p, err := ParsePath(rest)
		if err != nil {
			return Ref{}, err
		}
		return RefPath(p), nil
	}
	id := strings.TrimPrefix(s, "id:")
	if id == "" {
		return Ref{}, fmt.Errorf("%w: empty reference", ErrInvalidPath)
	}
	return RefID(ID(id)), nil
}

// Resolve walks p through the tree. Descending through an item is
// ErrNotFolder; an out-of-range index is ErrNodeNotFound.
func Resolve(nodes []Node, p Path) (Node, error) {
	if p.IsRoot() {
		return Node{}, fmt.Errorf("%w: root is not a node", ErrInvalidPath)
	}
	level := nodes
	var cur Node
	for depth, idx := range p {
		if idx < 0 || idx >= len(level) {
			return Node{}, fmt.Errorf("%w at %s", ErrNodeNotFound, p[:depth+1])
		}
		cur = level[idx]
		if depth < len(p)-1 {
			if !cur.IsFolder() {
				return Node{}, fmt.Errorf("%w at %s", ErrNotFolder, p[:depth+1])
			}
			level = cur.Children
		}
	}
	return cur, nil
}

// PathOf finds the current position of the node with the given id.
func PathOf(nodes []Node, id ID) (Path, bool) {
	if id == "" {
		return nil, false
	}
	for i, n := range nodes {
		if n.ID == id {
			return Path{i}, true
		}
		if sub, ok := PathOf(n.Children, id); ok {
			return append(Path{i}, sub...), true
		}
	}
	return nil, false
}

// Walk visits every node depth-first in display order.
func Walk(nodes []Node, fn func(p Path, n Node)) {
	walk(nodes, Path{}, fn)
}

func walk(nodes []Node, parent Path, fn func(Path, Node)) {
	for i, n := range nodes {
		p := parent.Child(i)
		fn(p, n)
		if len(n.Children) > 0 {
			walk(n.Children, p, fn)
		}
	}
}
