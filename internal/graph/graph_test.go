package graph

import (
	"context"
	"reflect"
	"testing"

	"github.com/leapstack-labs/freebies/internal/testutil"
)

func TestGraph_AddNodeAndFreebie(t *testing.T) {
	g := New()
	g.AddNode("company:1", KindCompany, "ODM")
	g.AddNode("dev:1", KindDev, "Raila")
	g.AddNode("dev:2", KindDev, "Ruto")

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}

	for _, v := range []int64{100, 250} {
		if err := g.AddFreebie("company:1", "dev:1", v); err != nil {
			t.Fatalf("failed to add freebie: %v", err)
		}
	}

	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", g.EdgeCount())
	}
	e, ok := g.GetEdge("company:1", "dev:1")
	if !ok {
		t.Fatal("expected edge company:1 -> dev:1")
	}
	if e.Freebies != 2 || e.Value != 350 {
		t.Errorf("edge = %+v, want 2 freebies worth 350", e)
	}

	n, _ := g.GetNode("company:1")
	if n.Freebies != 2 || n.Value != 350 {
		t.Errorf("company node = %+v, want 2 freebies worth 350", n)
	}
	if got := g.Isolated(); !reflect.DeepEqual(got, []string{"dev:2"}) {
		t.Errorf("Isolated() = %v, want [dev:2]", got)
	}
}

func TestGraph_AddFreebie_InvalidNodes(t *testing.T) {
	g := New()
	g.AddNode("company:1", KindCompany, "ODM")
	g.AddNode("dev:1", KindDev, "Raila")

	tests := []struct {
		name         string
		company, dev string
	}{
		{"missing company", "company:9", "dev:1"},
		{"missing dev", "company:1", "dev:9"},
		{"reversed kinds", "dev:1", "company:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddFreebie(tt.company, tt.dev, 1); err == nil {
				t.Error("expected error")
			}
		})
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected no edges, got %d", g.EdgeCount())
	}
}

func TestGraph_AddNodeRenames(t *testing.T) {
	g := New()
	g.AddNode("dev:1", KindDev, "Raila")
	g.AddNode("dev:1", KindDev, "Baba")

	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}
	n, _ := g.GetNode("dev:1")
	if n.Name != "Baba" {
		t.Errorf("name = %q, want Baba", n.Name)
	}
}

func TestBuild(t *testing.T) {
	eng := testutil.NewSeededEngine(t)

	g, err := Build(context.Background(), eng.Store())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.NodeCount() != 6 {
		t.Errorf("expected 6 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 5 {
		t.Errorf("expected 5 edges, got %d", g.EdgeCount())
	}

	var companies []string
	for _, n := range g.Nodes(KindCompany) {
		companies = append(companies, n.Name)
	}
	if want := []string{"ODM", "UDA", "DCP"}; !reflect.DeepEqual(companies, want) {
		t.Errorf("companies = %v, want %v", companies, want)
	}

	// first appearance in freebie order
	if got, want := g.GetChildren(CompanyID(1)), []string{DevID(1), DevID(2)}; !reflect.DeepEqual(got, want) {
		t.Errorf("ODM children = %v, want %v", got, want)
	}
	if got, want := g.GetParents(DevID(2)), []string{CompanyID(1), CompanyID(2)}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ruto parents = %v, want %v", got, want)
	}

	raila, _ := g.GetNode(DevID(1))
	if raila.Value != 7_500_000 {
		t.Errorf("Raila value = %d, want 7500000", raila.Value)
	}
	if len(g.Isolated()) != 0 {
		t.Errorf("expected no isolated nodes, got %v", g.Isolated())
	}
}

func TestGraph_Neighborhood(t *testing.T) {
	eng := testutil.NewSeededEngine(t)
	g, err := Build(context.Background(), eng.Store())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	sub := g.Neighborhood(DevID(2))
	if sub.NodeCount() != 3 {
		t.Errorf("expected Ruto plus 2 companies, got %d nodes", sub.NodeCount())
	}
	if sub.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", sub.EdgeCount())
	}
	ruto, _ := sub.GetNode(DevID(2))
	if ruto.Value != 1_800_000 {
		t.Errorf("Ruto value = %d, want 1800000", ruto.Value)
	}
	odm, _ := sub.GetNode(CompanyID(1))
	if odm.Value != 1_500_000 {
		t.Errorf("ODM value in Ruto's neighborhood = %d, want 1500000", odm.Value)
	}

	if empty := g.Neighborhood("dev:99"); empty.NodeCount() != 0 {
		t.Errorf("expected empty graph for unknown node, got %d nodes", empty.NodeCount())
	}
}
