package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Issue is a single problem found in a changelog.
type Issue struct {
	Line    int
	Message string
}

// Report collects the issues of one validation run.
type Report struct {
	Issues []Issue
}

func (r *Report) add(line int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a changelog follows Keep a Changelog spec",
	Long: `Validate that a changelog file follows the Keep a Changelog specification.

Checks include:
- File has a title (# Changelog)
- Has an [Unreleased] section
- Version entries use correct format: ## [X.Y.Z] - YYYY-MM-DD
- Versions appear once and follow semantic versioning
- Dates are in ISO 8601 format (YYYY-MM-DD)
- Change types are valid (Added, Changed, Deprecated, Removed, Fixed, Security)
- Link definitions exist for all versions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		report := Validate(content)

		if report.OK() {
			fmt.Println("✓ Changelog is valid")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(report.Issues))
		for _, issue := range report.Issues {
			if issue.Line > 0 {
				fmt.Printf("  Line %d: %s\n", issue.Line, issue.Message)
			} else {
				fmt.Printf("  %s\n", issue.Message)
			}
		}

		os.Exit(1)
		return nil
	},
}

var (
	headingRegex = regexp.MustCompile(`^## \[([^\]]+)\](?: - (.+))?$`)
	semverRegex  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	changeTypes = map[string]bool{
		"Added":      true,
		"Changed":    true,
		"Deprecated": true,
		"Removed":    true,
		"Fixed":      true,
		"Security":   true,
	}
)

// Validate checks a changelog against the Keep a Changelog spec.
func Validate(source []byte) *Report {
	report := &Report{}
	lines := strings.Split(string(source), "\n")

	hasTitle := false
	hasUnreleased := false
	seen := map[string]int{}

	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "# "):
			hasTitle = true
			if !strings.Contains(strings.ToLower(trimmed), "changelog") {
				report.add(lineNum, "Title should contain 'Changelog'")
			}

		case strings.HasPrefix(trimmed, "## "):
			m := headingRegex.FindStringSubmatch(trimmed)
			if m == nil {
				report.add(lineNum, "Version heading %q is not of the form '## [version] - YYYY-MM-DD'", trimmed)
				continue
			}

			version, date := m[1], m[2]
			if strings.EqualFold(version, "unreleased") {
				hasUnreleased = true
				continue
			}

			if first, dup := seen[version]; dup {
				report.add(lineNum, "Duplicate entry for version '%s' (first seen at line %d)", version, first)
			} else {
				seen[version] = lineNum
			}

			if !semverRegex.MatchString(version) {
				report.add(lineNum, "Version '%s' should follow semantic versioning (X.Y.Z)", version)
			}

			if date == "" {
				report.add(lineNum, "Version '%s' is missing a release date", version)
			} else if !isoDateRegex.MatchString(date) {
				report.add(lineNum, "Date '%s' should be in ISO 8601 format (YYYY-MM-DD)", date)
			}

		case strings.HasPrefix(trimmed, "### "):
			changeType := strings.TrimPrefix(trimmed, "### ")
			if !changeTypes[changeType] {
				report.add(lineNum, "Invalid change type '%s'. Valid types: Added, Changed, Deprecated, Removed, Fixed, Security", changeType)
			}
		}
	}

	if !hasTitle {
		report.add(0, "Missing changelog title (# Changelog)")
	}
	if !hasUnreleased {
		report.add(0, "Missing [Unreleased] section")
	}

	changelog, _ := Parse(source)
	if changelog != nil {
		for version := range seen {
			if _, ok := changelog.Links[version]; !ok {
				report.add(0, "Missing link definition for version [%s]", version)
			}
		}
		if hasUnreleased {
			if _, ok := changelog.Links["Unreleased"]; !ok {
				report.add(0, "Missing link definition for [Unreleased]")
			}
		}
	}

	return report
}

func init() {
	validateCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	rootCmd.AddCommand(validateCmd)
}
