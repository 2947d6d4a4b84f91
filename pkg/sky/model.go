package sky

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gincla/nightsky/pkg/errors"
)

// =============================================================================
// Graph
// =============================================================================

// Graph is the live sky: every node and link of one loaded document.
// Insertion order carries no meaning beyond determining each node's Index.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Links []*Link `json:"links"`

	byID     map[string]*Node
	resolved bool
}

// Node is a single star of the sky.
type Node struct {
	ID         string   `json:"id"`
	Categories []string `json:"categories,omitempty"`

	// Radius and ArcSize are optional document-supplied visual attributes.
	// Zero means unset.
	Radius  float64 `json:"radius,omitempty"`
	ArcSize float64 `json:"arcSize,omitempty"`

	// Index is the node's position in Graph.Nodes.
	Index int `json:"index"`

	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`

	// FX and FY pin the node when non-nil.
	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`

	// positioned is false when the document carried no usable x/y.
	positioned bool
}

// Positioned reports whether the node had a position before layout.
func (n *Node) Positioned() bool { return n.positioned }

// SetPosition places the node and marks it as positioned.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.positioned = true
}

// Link joins two nodes. SourceID and TargetID come from the document;
// Source and Target are set by [Graph.Resolve].
type Link struct {
	SourceID string `json:"source"`
	TargetID string `json:"target"`
	Index    int    `json:"index"`

	Source *Node `json:"-"`
	Target *Node `json:"-"`
}

// =============================================================================
// Construction
// =============================================================================

// New builds a graph from nodes and links, assigning node and link indices.
// Duplicate node ids are rejected. Links are left unresolved.
func New(nodes []*Node, links []*Link) (*Graph, error) {
	g := &Graph{
		Nodes: nodes,
		Links: links,
		byID:  make(map[string]*Node, len(nodes)),
	}
	for i, n := range nodes {
		if n == nil {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "node %d is null", i)
		}
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "node %d has no id", i)
		}
		if _, dup := g.byID[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		n.Index = i
		g.byID[n.ID] = n
	}
	for i, l := range links {
		if l == nil {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "link %d is null", i)
		}
		l.Index = i
	}
	return g, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.Links) }

// Resolve replaces link endpoint ids with direct node references.
// It is idempotent. An id without a node is an error.
func (g *Graph) Resolve() error {
	if g.resolved {
		return nil
	}
	for _, l := range g.Links {
		src, ok := g.byID[l.SourceID]
		if !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "node not found: %s", l.SourceID)
		}
		dst, ok := g.byID[l.TargetID]
		if !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "node not found: %s", l.TargetID)
		}
		l.Source, l.Target = src, dst
	}
	g.resolved = true
	return nil
}

// Resolved reports whether Resolve has succeeded.
func (g *Graph) Resolved() bool { return g.resolved }

// =============================================================================
// JSON
// =============================================================================

type wireGraph struct {
	Nodes []wireNode `json:"nodes"`
	Links []wireLink `json:"links"`
}

type wireNode struct {
	ID         json.RawMessage `json:"id"`
	X          *float64        `json:"x"`
	Y          *float64        `json:"y"`
	FX         *float64        `json:"fx"`
	FY         *float64        `json:"fy"`
	Radius     float64         `json:"radius"`
	ArcSize    float64         `json:"arcSize"`
	Categories []string        `json:"categories"`
}

type wireLink struct {
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
}

// Decode reads a JSON graph document from r.
// The returned graph is validated but its links are not yet resolved.
func Decode(r io.Reader) (*Graph, error) {
	var w wireGraph
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}

	nodes := make([]*Node, len(w.Nodes))
	for i, wn := range w.Nodes {
		id, err := decodeID(wn.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		n := &Node{
			ID:         id,
			Radius:     wn.Radius,
			ArcSize:    wn.ArcSize,
			Categories: wn.Categories,
			FX:         wn.FX,
			FY:         wn.FY,
		}
		if wn.X != nil && wn.Y != nil && !math.IsNaN(*wn.X) && !math.IsNaN(*wn.Y) {
			n.SetPosition(*wn.X, *wn.Y)
		}
		nodes[i] = n
	}

	links := make([]*Link, len(w.Links))
	for i, wl := range w.Links {
		src, err := decodeID(wl.Source)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "link %d source", i)
		}
		dst, err := decodeID(wl.Target)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "link %d target", i)
		}
		links[i] = &Link{SourceID: src, TargetID: dst}
	}

	return New(nodes, links)
}

// Unmarshal decodes a JSON graph document held in memory.
func Unmarshal(data []byte) (*Graph, error) {
	return Decode(bytes.NewReader(data))
}

// decodeID accepts a JSON string or number.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("missing id")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", fmt.Errorf("id must be a string or number, got %s", raw)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
