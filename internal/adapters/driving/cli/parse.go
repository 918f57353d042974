package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/adapters/driving/styles"
	"github.com/custodia-labs/toonc/internal/core/domain"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [source]",
	Short: "Show the parsed document model",
	Long: `Parse a source without rendering it and print its id, metadata, and
sections with their detected shapes. Recovered parse failures are listed
as issues.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "output the document as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if compileService == nil {
		return errNotConfigured("compile")
	}

	doc, err := compileService.Parse(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	view := doc.View()
	if parseJSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printDocument(cmd, styles.For(cmd.OutOrStdout()), view)
	return nil
}

func printDocument(cmd *cobra.Command, s *styles.Styles, view domain.DocumentView) {
	id := view.ID
	if id == "" {
		id = "(none)"
	}
	cmd.Printf("%s %s\n", s.Label.Render("id:"), id)
	cmd.Printf("%s %s\n", s.Label.Render("kind:"), view.Kind)
	cmd.Printf("%s %s\n", s.Label.Render("format:"), view.SourceFormatVersion)

	meta := []struct{ key, value string }{
		{"name", view.Metadata.Name},
		{"role", view.Metadata.Role},
		{"spec", view.Metadata.Spec},
		{"model", view.Metadata.Model},
		{"version", view.Metadata.Version},
		{"description", view.Metadata.Description},
	}
	for _, m := range meta {
		if m.value != "" {
			cmd.Printf("%s %s\n", s.Label.Render(m.key+":"), m.value)
		}
	}

	cmd.Println()
	if len(view.SectionOrder) == 0 {
		cmd.Println("No sections.")
	} else {
		cmd.Println(s.Title.Render("Sections:"))
		for _, name := range view.SectionOrder {
			section := view.Sections[name]
			cmd.Printf("  %s %s\n", name, s.Muted.Render("("+section.Shape+sectionSize(section)+")"))
		}
	}

	if len(view.Issues) > 0 {
		cmd.Println()
		cmd.Println(s.Warning.Render("Issues:"))
		for _, issue := range view.Issues {
			where := strings.TrimSpace(issue.Stage + " " + issue.Block)
			cmd.Printf("  - %s: %s\n", where, issue.Err)
		}
	}
}

// sectionSize describes how many entries a section holds.
func sectionSize(section domain.SectionView) string {
	switch v := section.Value.(type) {
	case []string:
		return fmt.Sprintf(", %d items", len(v))
	case map[string]any:
		return fmt.Sprintf(", %d keys", len(v))
	default:
		return ""
	}
}
