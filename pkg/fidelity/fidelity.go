// Package fidelity scores how faithfully a converted rendering preserves the
// text of its original. The score is advisory: validation never fails a
// conversion, it only attaches warnings.
package fidelity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultThreshold is the fidelity score below which Validate attaches
// warnings.
const DefaultThreshold = 80

// Difference describes one divergence between the two renderings. Paths are
// coarse diagnostic hints, not patch locations.
type Difference struct {
	Type        string `json:"type"` // added, removed or modified
	Path        string `json:"path"`
	OldValue    string `json:"oldValue,omitempty"`
	NewValue    string `json:"newValue,omitempty"`
	Description string `json:"description"`
}

// Report is the result of scoring two renderings against each other. The ID
// correlates the report with the platform's audit log.
type Report struct {
	ID          string       `json:"id"`
	Score       int          `json:"score"`
	Differences []Difference `json:"differences"`
}

// Result wraps a Report against a caller-supplied threshold. Success is
// always true; a shortfall only produces warnings.
type Result struct {
	Success  bool     `json:"success"`
	Fidelity int      `json:"fidelity"`
	ReportID string   `json:"reportId"`
	Warnings []string `json:"warnings,omitempty"`
}

var (
	tagSyntax  = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
	// Markup punctuation that carries no text content of its own.
	markupPunct = strings.NewReplacer(
		"#", "", "*", "", "_", "", "`", "", "~", "", ">", "",
		"[", "", "]", "", "(", "", ")", "", "!", "",
	)
)

// normalize strips tag syntax and markup punctuation and collapses whitespace
// runs to single spaces, so only the visible text is compared.
func normalize(s string) string {
	s = tagSyntax.ReplaceAllString(s, " ")
	s = markupPunct.Replace(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Score computes a 0-100 similarity between two textual renderings of the
// same content. Identical input scores 100; the measure is continuous, so
// disjoint content scores low but not necessarily zero.
func Score(original, converted string) *Report {
	report := &Report{ID: uuid.New().String()}

	a := normalize(original)
	b := normalize(converted)
	if a == b {
		report.Score = 100
		return report
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	distance := dmp.DiffLevenshtein(diffs)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	score := 100
	if longest > 0 {
		score = 100 - (distance*100+longest/2)/longest
	}
	if score < 0 {
		score = 0
	}
	// The renderings differ, so a rounding artifact must not report identity.
	if score >= 100 {
		score = 99
	}
	report.Score = score
	report.Differences = collectDifferences(diffs)
	return report
}

// Validate scores the pair against threshold. The result always succeeds;
// a score below threshold only attaches warnings.
func Validate(original, converted string, threshold int) *Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	report := Score(original, converted)
	result := &Result{
		Success:  true,
		Fidelity: report.Score,
		ReportID: report.ID,
	}
	if report.Score < threshold {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("fidelity %d below threshold %d", report.Score, threshold))
		for _, d := range report.Differences {
			result.Warnings = append(result.Warnings, d.Description)
		}
	}
	return result
}

func collectDifferences(diffs []diffmatchpatch.Diff) []Difference {
	var out []Difference
	segment := 0
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			segment++
		case diffmatchpatch.DiffDelete:
			// A delete followed by an insert is one modification.
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				out = append(out, Difference{
					Type:        "modified",
					Path:        fmt.Sprintf("segment:%d", segment),
					OldValue:    d.Text,
					NewValue:    diffs[i+1].Text,
					Description: fmt.Sprintf("%q became %q", snippet(d.Text), snippet(diffs[i+1].Text)),
				})
				i++
				continue
			}
			out = append(out, Difference{
				Type:        "removed",
				Path:        fmt.Sprintf("segment:%d", segment),
				OldValue:    d.Text,
				Description: fmt.Sprintf("%q removed", snippet(d.Text)),
			})
		case diffmatchpatch.DiffInsert:
			out = append(out, Difference{
				Type:        "added",
				Path:        fmt.Sprintf("segment:%d", segment),
				NewValue:    d.Text,
				Description: fmt.Sprintf("%q added", snippet(d.Text)),
			})
		}
	}
	return out
}

func snippet(s string) string {
	const max = 40
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
