package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/internal/graph"
	"github.com/spf13/cobra"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	Company string
	Dev     string
}

// GraphOutput is the JSON output for the graph command.
type GraphOutput struct {
	Nodes      []*graph.Node `json:"nodes"`
	Edges      []*graph.Edge `json:"edges"`
	Isolated   []string      `json:"isolated"`
	TotalNodes int           `json:"total_nodes"`
	TotalEdges int           `json:"total_edges"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show which companies have given to which devs",
		Long: `Display the company-to-dev relationship graph.

Each company is listed with the devs it has given freebies to, with the
number of freebies and their total value per pair. Companies that never gave
and devs that never received are listed separately.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the whole graph
  freebies graph

  # Only ODM and the devs it reached
  freebies graph --company ODM

  # Only Ruto and the companies that gave to him
  freebies graph --dev Ruto --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Company, "company", "", "Focus on one company (name or id)")
	cmd.Flags().StringVar(&opts.Dev, "dev", "", "Focus on one dev (name or id)")
	cmd.MarkFlagsMutuallyExclusive("company", "dev")
	_ = cmd.RegisterFlagCompletionFunc("company", completeCompanies)
	_ = cmd.RegisterFlagCompletionFunc("dev", completeDevs)

	return cmd
}

func runGraph(cmd *cobra.Command, opts *GraphOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	store := cmdCtx.Engine.Store()
	r := cmdCtx.Renderer

	g, err := graph.Build(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	switch {
	case opts.Company != "":
		c, err := resolveCompany(ctx, store, opts.Company)
		if err != nil {
			return err
		}
		g = g.Neighborhood(graph.CompanyID(c.ID))
	case opts.Dev != "":
		d, err := resolveDev(ctx, store, opts.Dev)
		if err != nil {
			return err
		}
		g = g.Neighborhood(graph.DevID(d.ID))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return graphJSON(r, g)
	case output.ModeMarkdown:
		return graphMarkdown(r, g)
	default:
		return graphText(r, g)
	}
}

func nodeName(g *graph.Graph, id string) string {
	if n, ok := g.GetNode(id); ok {
		return n.Name
	}
	return id
}

// edgeLabel describes one company-dev pair, e.g. "2 freebies, KSh 1,800,000".
func edgeLabel(e *graph.Edge) string {
	noun := "freebies"
	if e.Freebies == 1 {
		noun = "freebie"
	}
	return fmt.Sprintf("%d %s, %s", e.Freebies, noun, output.Money(e.Value))
}

func isolatedNames(g *graph.Graph) []string {
	ids := g.Isolated()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		n, _ := g.GetNode(id)
		names = append(names, fmt.Sprintf("%s (%s)", n.Name, n.Kind))
	}
	return names
}

// graphText outputs the graph in styled text format.
func graphText(r *output.Renderer, g *graph.Graph) error {
	styles := r.Styles()

	r.Header(1, "Relationship Graph")

	for _, company := range g.Nodes(graph.KindCompany) {
		devs := g.GetChildren(company.ID)
		if len(devs) == 0 {
			continue
		}
		r.Printf("%s %s\n", styles.Header2.Render(company.Name), styles.Muted.Render(output.Money(company.Value)))
		for _, dev := range devs {
			e, _ := g.GetEdge(company.ID, dev)
			r.Printf("  -> %s %s\n", styles.Bold.Render(nodeName(g, dev)), styles.Muted.Render(edgeLabel(e)))
		}
		r.Println("")
	}

	if isolated := isolatedNames(g); len(isolated) > 0 {
		r.Printf("%s %s\n\n", styles.Muted.Render("no freebies:"), strings.Join(isolated, ", "))
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d nodes, %d relationships", g.NodeCount(), g.EdgeCount())))

	return nil
}

// graphMarkdown outputs the graph in markdown format.
func graphMarkdown(r *output.Renderer, g *graph.Graph) error {
	r.Println(output.FormatHeader(1, "Relationship Graph"))
	r.Println("")

	for _, company := range g.Nodes(graph.KindCompany) {
		devs := g.GetChildren(company.ID)
		if len(devs) == 0 {
			continue
		}
		r.Println(output.FormatHeader(2, company.Name))
		for _, dev := range devs {
			e, _ := g.GetEdge(company.ID, dev)
			r.Printf("- %s: %s\n", nodeName(g, dev), edgeLabel(e))
		}
		r.Println("")
	}

	if isolated := isolatedNames(g); len(isolated) > 0 {
		r.Println(output.FormatHeader(2, "No Freebies"))
		for _, name := range isolated {
			r.Printf("- %s\n", name)
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Nodes", fmt.Sprintf("%d", g.NodeCount())))
	r.Println(output.FormatKeyValue("Total Relationships", fmt.Sprintf("%d", g.EdgeCount())))

	return nil
}

// graphJSON outputs the graph in JSON format.
func graphJSON(r *output.Renderer, g *graph.Graph) error {
	nodes := append(g.Nodes(graph.KindCompany), g.Nodes(graph.KindDev)...)
	out := GraphOutput{
		Nodes:      nodes,
		Edges:      g.Edges(),
		Isolated:   g.Isolated(),
		TotalNodes: g.NodeCount(),
		TotalEdges: g.EdgeCount(),
	}
	if out.Nodes == nil {
		out.Nodes = []*graph.Node{}
	}
	if out.Edges == nil {
		out.Edges = []*graph.Edge{}
	}
	if out.Isolated == nil {
		out.Isolated = []string{}
	}
	return r.JSON(out)
}
