package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind distinguishes checklist leaves from containers.
type Kind string

const (
	KindItem   Kind = "item"
	KindFolder Kind = "folder"
)

// Titles given to freshly created nodes, and shown for untitled ones.
const (
	DefaultItemTitle   = "Nuovo elemento"
	DefaultFolderTitle = "Nuova cartella"
	UntitledTitle      = "Senza titolo"
)

// ParseKind accepts "item" or "folder" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindItem:
		return KindItem, nil
	case KindFolder:
		return KindFolder, nil
	}
	return "", fmt.Errorf("unknown node kind %q", s)
}

// DefaultTitle is the title a new node of kind k is created with.
func DefaultTitle(k Kind) string {
	if k == KindFolder {
		return DefaultFolderTitle
	}
	return DefaultItemTitle
}

// ID is a server-assigned identifier. Backends send either JSON strings or
// numbers; both are kept as text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Node is one checklist entry. Only folders carry children.
type Node struct {
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	Kind     Kind   `json:"kind"`
	Children []Node `json:"children,omitempty"`
}

func (n Node) IsFolder() bool { return n.Kind == KindFolder }

// DisplayTitle is the title to render; empty titles read "Senza titolo".
func (n Node) DisplayTitle() string {
	if n.Title == "" {
		return UntitledTitle
	}
	return n.Title
}

// Normalize fills in missing kinds: a node without a kind is a folder when it
// has children and an item otherwise. Only folders keep children.
func Normalize(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.Kind == "" {
			n.Kind = KindItem
			if len(n.Children) > 0 {
				n.Kind = KindFolder
			}
		}
		switch {
		case !n.IsFolder():
			n.Children = nil
		case len(n.Children) > 0:
			n.Children = Normalize(n.Children)
		}
		out[i] = n
	}
	return out
}

// Flatten projects a tree onto a single level of items. Children are
// discarded and only each top-level node's id and title survive.
func Flatten(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{ID: n.ID, Title: n.Title, Kind: KindItem}
	}
	return out
}

// Clone deep-copies a tree.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Children = Clone(n.Children)
		out[i] = n
	}
	return out
}

// Count returns the number of nodes in the tree, folders included.
func Count(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Children)
	}
	return total
}
