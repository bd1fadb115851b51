package analysis

import "strings"

// The scoring output is embedded verbatim into published assets, so every
// tier boundary and point value below is a fixed constant and Score must
// stay deterministic and side-effect free.

const (
	SubScoreCap = 30
	TotalCap    = 100
)

// RepoMetrics is the raw input for the scoring engine. All values describe
// a repository at its last-pushed instant; none of them may depend on the
// time of scoring.
type RepoMetrics struct {
	CommitsTotal    int    `json:"commitsTotal"`
	CommitsLast7d   int    `json:"commitsLast7d"`
	CommitsLast30d  int    `json:"commitsLast30d"`
	CommitsLast365d int    `json:"commitsLast365d"`
	FileCount       int    `json:"fileCount"`
	HasLicenseFile  bool   `json:"hasLicenseFile"`
	HasBuildFile    bool   `json:"hasBuildFile"`
	HasIgnoreFile   bool   `json:"hasIgnoreFile"`
	HasCIConfig     bool   `json:"hasCiConfig"`
	Readme          string `json:"readme"`

	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Description string   `json:"description"`
	License     string   `json:"license"`
	Topics      []string `json:"topics"`
}

type ScoreBreakdown struct {
	Activity   int `json:"activity"`
	Structure  int `json:"structure"`
	Narrative  int `json:"narrative"`
	Popularity int `json:"popularity"`
}

type ScoreResult struct {
	Total     int            `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Score computes the composite repository score. Each sub-score is capped
// independently at 30 points and the total at 100.
func Score(m RepoMetrics) ScoreResult {
	breakdown := ScoreBreakdown{
		Activity:   activityScore(m),
		Structure:  structureScore(m),
		Narrative:  narrativeScore(m),
		Popularity: popularityScore(m),
	}

	total := breakdown.Activity + breakdown.Structure + breakdown.Narrative + breakdown.Popularity
	if total > TotalCap {
		total = TotalCap
	}

	return ScoreResult{Total: total, Breakdown: breakdown}
}

// activityScore combines a tiered bonus for the lifetime contribution count
// with three independently tiered recency windows.
func activityScore(m RepoMetrics) int {
	score := tiered(m.CommitsTotal, []tier{{100, 15}, {50, 12}, {20, 8}, {5, 5}, {0, 2}})
	score += tiered(m.CommitsLast7d, []tier{{9, 8}, {2, 5}, {0, 3}})
	score += tiered(m.CommitsLast30d, []tier{{39, 7}, {9, 4}, {0, 2}})
	score += tiered(m.CommitsLast365d, []tier{{199, 8}, {49, 5}, {0, 2}})
	return capped(score)
}

// structureScore rewards repository size and the presence of canonical files.
func structureScore(m RepoMetrics) int {
	score := tiered(m.FileCount, []tier{{199, 12}, {49, 9}, {9, 6}, {0, 3}})
	if m.HasLicenseFile {
		score += 5
	}
	if m.HasBuildFile {
		score += 5
	}
	if m.HasIgnoreFile {
		score += 4
	}
	if m.HasCIConfig {
		score += 4
	}
	return capped(score)
}

var readmeSections = []struct {
	keyword string
	points  int
}{
	{"installation", 5},
	{"usage", 5},
	{"license", 4},
	{"contributing", 4},
	{"example", 3},
}

// narrativeScore rewards readme length and canonical section headings.
func narrativeScore(m RepoMetrics) int {
	score := tiered(len(m.Readme), []tier{{4999, 12}, {1999, 10}, {999, 7}, {299, 4}, {0, 2}})

	readme := strings.ToLower(m.Readme)
	for _, section := range readmeSections {
		if strings.Contains(readme, section.keyword) {
			score += section.points
		}
	}
	return capped(score)
}

// popularityScore rewards external popularity signals and metadata hygiene.
func popularityScore(m RepoMetrics) int {
	score := tiered(m.Stars, []tier{{999, 12}, {99, 9}, {24, 6}, {4, 3}, {0, 1}})
	score += tiered(m.Forks, []tier{{199, 8}, {49, 6}, {9, 4}, {0, 2}})
	score += tiered(len(m.Description), []tier{{59, 4}, {0, 2}})
	if m.License != "" {
		score += 3
	}
	score += tiered(len(m.Topics), []tier{{4, 3}, {0, 2}})
	return capped(score)
}

type tier struct {
	above  int
	points int
}

// tiered returns the points of the first tier the value exceeds.
func tiered(value int, tiers []tier) int {
	for _, t := range tiers {
		if value > t.above {
			return t.points
		}
	}
	return 0
}

func capped(score int) int {
	if score > SubScoreCap {
		return SubScoreCap
	}
	return score
}
