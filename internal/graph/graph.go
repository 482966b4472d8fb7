// Package graph provides the company-to-dev relationship graph.
// Companies and devs are nodes; an edge joins a company to every dev it
// has given at least one freebie, weighted by count and total value.
package graph

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/freebies/pkg/core"
)

// Kind is the entity behind a node.
type Kind string

// Node kinds.
const (
	KindCompany Kind = "company"
	KindDev     Kind = "dev"
)

// Node represents a company or a dev.
type Node struct {
	// ID is unique across kinds, e.g. "company:1"
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	// Freebies and Value total the node's edges
	Freebies int   `json:"freebies"`
	Value    int64 `json:"value"`
}

// Edge joins a company to a dev.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Freebies int    `json:"freebies"`
	Value    int64  `json:"value"`
}

// Graph is a bipartite graph of companies and devs.
// Nodes and edges keep insertion order.
type Graph struct {
	nodes   map[string]*Node
	order   []string
	edges   map[string][]string // company -> devs
	parents map[string][]string // dev -> companies
	weights map[[2]string]*Edge
	ordered []*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
		weights: make(map[[2]string]*Edge),
	}
}

// CompanyID returns the node ID of a company.
func CompanyID(id int64) string { return fmt.Sprintf("%s:%d", KindCompany, id) }

// DevID returns the node ID of a dev.
func DevID(id int64) string { return fmt.Sprintf("%s:%d", KindDev, id) }

// AddNode adds a node, or renames an existing one.
func (g *Graph) AddNode(id string, kind Kind, name string) {
	if n, exists := g.nodes[id]; exists {
		n.Name = name
		return
	}
	g.nodes[id] = &Node{ID: id, Kind: kind, Name: name}
	g.order = append(g.order, id)
}

// AddFreebie records one freebie from company to dev, adding the edge on
// first use.
func (g *Graph) AddFreebie(companyID, devID string, value int64) error {
	from, ok := g.nodes[companyID]
	if !ok || from.Kind != KindCompany {
		return fmt.Errorf("company node %q does not exist", companyID)
	}
	to, ok := g.nodes[devID]
	if !ok || to.Kind != KindDev {
		return fmt.Errorf("dev node %q does not exist", devID)
	}

	key := [2]string{companyID, devID}
	e, exists := g.weights[key]
	if !exists {
		e = &Edge{From: companyID, To: devID}
		g.weights[key] = e
		g.ordered = append(g.ordered, e)
		g.edges[companyID] = append(g.edges[companyID], devID)
		g.parents[devID] = append(g.parents[devID], companyID)
	}
	e.Freebies++
	e.Value += value

	from.Freebies++
	from.Value += value
	to.Freebies++
	to.Value += value
	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// GetParents returns the companies that gave to a dev.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the devs a company gave to.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// GetEdge returns the edge between a company and a dev.
func (g *Graph) GetEdge(companyID, devID string) (*Edge, bool) {
	e, ok := g.weights[[2]string{companyID, devID}]
	return e, ok
}

// Nodes returns the nodes of one kind in insertion order.
func (g *Graph) Nodes(kind Kind) []*Node {
	var nodes []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.ordered
}

// Isolated returns nodes without edges: companies that never gave and
// devs that never received.
func (g *Graph) Isolated() []string {
	var ids []string
	for _, id := range g.order {
		if len(g.edges[id]) == 0 && len(g.parents[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of company-dev pairs.
func (g *Graph) EdgeCount() int {
	return len(g.ordered)
}

// Neighborhood returns a new graph holding id, its neighbors and the edges
// between them.
func (g *Graph) Neighborhood(id string) *Graph {
	sub := New()
	n, ok := g.nodes[id]
	if !ok {
		return sub
	}

	keep := map[string]bool{id: true}
	for _, other := range g.edges[id] {
		keep[other] = true
	}
	for _, other := range g.parents[id] {
		keep[other] = true
	}
	for _, nid := range g.order {
		if keep[nid] {
			node := g.nodes[nid]
			sub.AddNode(node.ID, node.Kind, node.Name)
		}
	}

	for _, e := range g.ordered {
		if e.From != n.ID && e.To != n.ID {
			continue
		}
		key := [2]string{e.From, e.To}
		copied := *e
		sub.weights[key] = &copied
		sub.ordered = append(sub.ordered, &copied)
		sub.edges[e.From] = append(sub.edges[e.From], e.To)
		sub.parents[e.To] = append(sub.parents[e.To], e.From)
		for _, end := range []*Node{sub.nodes[e.From], sub.nodes[e.To]} {
			end.Freebies += e.Freebies
			end.Value += e.Value
		}
	}
	return sub
}

// Build loads every company, dev and freebie from repo.
func Build(ctx context.Context, repo core.Repository) (*Graph, error) {
	companies, err := repo.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	devs, err := repo.ListDevs(ctx)
	if err != nil {
		return nil, err
	}
	freebies, err := repo.ListFreebies(ctx)
	if err != nil {
		return nil, err
	}

	g := New()
	for _, c := range companies {
		g.AddNode(CompanyID(c.ID), KindCompany, c.Name)
	}
	for _, d := range devs {
		g.AddNode(DevID(d.ID), KindDev, d.Name)
	}
	for _, f := range freebies {
		if err := g.AddFreebie(CompanyID(f.CompanyID), DevID(f.DevID), f.Value); err != nil {
			return nil, fmt.Errorf("freebie %d: %w", f.ID, err)
		}
	}
	return g, nil
}
