package analysis

import (
	"fmt"
	"strings"
)

// Narrative renders a short human-readable assessment of a repository.
// The text is deterministic for a given metrics/score pair because it is
// published verbatim alongside the score.
func Narrative(name string, m RepoMetrics, s ScoreResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s scores %d/100.", name, s.Total)
	fmt.Fprintf(&b, " Activity %d/30: %d commits overall, %d in the last year.",
		s.Breakdown.Activity, m.CommitsTotal, m.CommitsLast365d)
	fmt.Fprintf(&b, " Structure %d/30: %d files", s.Breakdown.Structure, m.FileCount)
	if m.HasLicenseFile {
		b.WriteString(", licensed")
	}
	if m.HasCIConfig {
		b.WriteString(", CI configured")
	}
	b.WriteString(".")
	fmt.Fprintf(&b, " Documentation %d/30.", s.Breakdown.Narrative)
	fmt.Fprintf(&b, " Popularity %d/30: %d stars, %d forks.", s.Breakdown.Popularity, m.Stars, m.Forks)

	return b.String()
}
