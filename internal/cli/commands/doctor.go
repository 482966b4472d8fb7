package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/internal/state"
	"github.com/spf13/cobra"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the database for schema and data problems",
		Long: `Check the freebies database for schema and data problems.

The doctor command opens the database read-only and reports:
- Database summary (schema version, row counts)
- Health checks grouped by category (Storage, Data)
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  freebies doctor

  # Output as JSON
  freebies doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         DatabaseSummary `json:"summary"`
	HealthChecks    []HealthCheck   `json:"health_checks"`
	Score           int             `json:"score"`
	Recommendations []string        `json:"recommendations"`
	IssueCount      int             `json:"issue_count"`
}

// DatabaseSummary contains database-level statistics.
type DatabaseSummary struct {
	DBPath        string `json:"db_path"`
	SchemaVersion int64  `json:"schema_version"`
	Companies     int64  `json:"companies"`
	Devs          int64  `json:"devs"`
	Freebies      int64  `json:"freebies"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

// healthRule is one check run by doctor.
type healthRule struct {
	id       string
	name     string
	group    string
	severity string // status reported when the check finds problems
	check    func(*state.SQLiteStore) func(context.Context) ([]string, error)
}

var healthRules = []healthRule{
	{"DB01", "Schema is up to date", "storage", "error", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.PendingMigrations
	}},
	{"DB02", "Foreign keys are enforced", "storage", "error", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.ForeignKeysDisabled
	}},
	{"DB03", "Database file is intact", "storage", "error", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.IntegrityErrors
	}},
	{"DA01", "Freebies reference existing devs and companies", "data", "error", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.ForeignKeyViolations
	}},
	{"DA02", "Companies and devs are named", "data", "warn", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.UnnamedRows
	}},
	{"DA03", "Company and dev names are unique", "data", "warn", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.DuplicateNames
	}},
	{"DA04", "Freebie item names are unique", "data", "warn", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.DuplicateItemNames
	}},
	{"DA05", "Companies have a founding year", "data", "warn", func(s *state.SQLiteStore) func(context.Context) ([]string, error) {
		return s.CompaniesWithoutFoundingYear
	}},
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	doctorOutput, err := buildDoctorOutput(cmd.Context(), cmdCtx.Engine.Store())
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(ctx context.Context, store *state.SQLiteStore) (*DoctorOutput, error) {
	summary, err := buildDatabaseSummary(ctx, store)
	if err != nil {
		return nil, err
	}

	healthChecks := make([]HealthCheck, 0, len(healthRules))
	issues := 0
	for _, rule := range healthRules {
		details, err := rule.check(store)(ctx)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", rule.id, err)
		}

		status := "pass"
		if len(details) > 0 {
			status = rule.severity
		}
		issues += len(details)

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     rule.id,
			Name:       rule.name,
			Group:      rule.group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	// Sort health checks by group then by rule ID
	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group > healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	rows := summary.Companies + summary.Devs + summary.Freebies

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    healthChecks,
		Score:           calculateHealthScore(healthChecks, rows),
		Recommendations: generateRecommendations(healthChecks),
		IssueCount:      issues,
	}, nil
}

func buildDatabaseSummary(ctx context.Context, store *state.SQLiteStore) (DatabaseSummary, error) {
	summary := DatabaseSummary{DBPath: store.Path()}

	version, err := store.MigrationVersion()
	if err != nil {
		return summary, err
	}
	summary.SchemaVersion = version

	stats, err := store.Stats(ctx)
	if err != nil {
		return summary, err
	}
	summary.Companies = stats.Companies
	summary.Devs = stats.Devs
	summary.Freebies = stats.Freebies

	return summary, nil
}

// calculateHealthScore computes a health score from 0-100.
// Errors cost twice as much as warnings, and each issue weighs less in a
// bigger database.
func calculateHealthScore(checks []HealthCheck, rowCount int64) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if rowCount > 100 {
		basePenalty = 3.0
	}
	if rowCount > 1000 {
		basePenalty = 2.0
	}
	if rowCount > 10000 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}

		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "DB01":
		return "Run 'freebies migrate' to apply pending migrations"
	case "DB02":
		return "Open the database through freebies, which enables foreign keys on every connection"
	case "DB03":
		return "Restore the database from a backup or re-run 'freebies seed'"
	case "DA01":
		return "Delete orphaned freebies or recreate the devs and companies they reference"
	case "DA02":
		return "Name every company and dev; unnamed rows can only be addressed by id"
	case "DA03":
		return "Rename duplicate companies and devs; name lookups pick the lowest id"
	case "DA04":
		return "Use distinct item names or refer to freebies by id"
	case "DA05":
		return "Set founding years; companies without one are skipped by 'company oldest'"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("freebies Database Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Database Summary"))
	r.Printf("   Path: %s | Schema version: %d\n", out.Summary.DBPath, out.Summary.SchemaVersion)
	r.Printf("   Companies: %d | Devs: %d | Freebies: %d\n", out.Summary.Companies, out.Summary.Devs, out.Summary.Freebies)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + output.Title(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.String()
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# freebies Database Health Report")
	r.Println("")

	r.Println("## Database Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Path", out.Summary.DBPath))
	r.Printf("- **Schema version**: %d\n", out.Summary.SchemaVersion)
	r.Printf("- **Companies**: %d\n", out.Summary.Companies)
	r.Printf("- **Devs**: %d\n", out.Summary.Devs)
	r.Printf("- **Freebies**: %d\n", out.Summary.Freebies)
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + output.Title(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
