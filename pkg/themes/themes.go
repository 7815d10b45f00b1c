// Package themes provides the text-analysis primitives of the strategy
// engine: theme counting, period-over-period trends, greedy report
// clustering, and the theme-to-business-exposure mapping.
package themes

import (
	"fmt"
	"sort"
	"strings"
)

// Vocabulary is the fixed set of theme keywords, in priority order. Ties in
// theme rankings are broken by position in this list.
var Vocabulary = []string{
	"ransomware", "phishing", "credential", "exploit", "zero-day", "c2",
	"botnet", "malware", "apt", "supply chain", "ddos",
}

var vocabIndex = func() map[string]int {
	m := make(map[string]int, len(Vocabulary))
	for i, k := range Vocabulary {
		m[k] = i
	}
	return m
}()

// Counts maps theme keywords to document-frequency counts within a window.
type Counts map[string]int

// ThemeCount is one (keyword, count) ranking entry.
type ThemeCount struct {
	Theme string
	Count int
}

// ThemeDelta is one (keyword, period-over-period delta) entry.
type ThemeDelta struct {
	Theme string
	Delta int
}

// Trend partitions the key union of two windows into rising, falling and
// stable themes. The three lists are disjoint.
type Trend struct {
	Rising  []ThemeDelta // positive delta, sorted descending
	Falling []ThemeDelta // negative delta, sorted ascending
	Stable  []ThemeDelta // zero delta, sorted by current count descending
}

// Count tallies how many texts mention each vocabulary keyword. A text
// contributes at most once per keyword regardless of repeat mentions
// (document frequency, not term frequency).
func Count(texts []string) Counts {
	c := Counts{}
	for _, t := range texts {
		lt := strings.ToLower(t)
		for _, k := range Vocabulary {
			if strings.Contains(lt, k) {
				c[k]++
			}
		}
	}
	return c
}

// Summarize returns the topN most frequent themes across texts, ties broken
// by vocabulary order.
func Summarize(texts []string, topN int) []ThemeCount {
	return TopThemes(Count(texts), topN)
}

// TopThemes ranks existing counts; ties broken by vocabulary order.
func TopThemes(c Counts, topN int) []ThemeCount {
	out := make([]ThemeCount, 0, len(c))
	for k, v := range c {
		out = append(out, ThemeCount{Theme: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return vocabIndex[out[i].Theme] < vocabIndex[out[j].Theme]
	})
	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// TrendOf compares the current window against the previous one. Absent keys
// count as zero; each list is truncated to topN.
func TrendOf(curr, prev Counts, topN int) Trend {
	keys := map[string]struct{}{}
	for k := range curr {
		keys[k] = struct{}{}
	}
	for k := range prev {
		keys[k] = struct{}{}
	}

	var rising, falling, stable []ThemeDelta
	for k := range keys {
		d := curr[k] - prev[k]
		td := ThemeDelta{Theme: k, Delta: d}
		switch {
		case d > 0:
			rising = append(rising, td)
		case d < 0:
			falling = append(falling, td)
		default:
			stable = append(stable, td)
		}
	}

	sort.Slice(rising, func(i, j int) bool {
		if rising[i].Delta != rising[j].Delta {
			return rising[i].Delta > rising[j].Delta
		}
		return vocabIndex[rising[i].Theme] < vocabIndex[rising[j].Theme]
	})
	sort.Slice(falling, func(i, j int) bool {
		if falling[i].Delta != falling[j].Delta {
			return falling[i].Delta < falling[j].Delta
		}
		return vocabIndex[falling[i].Theme] < vocabIndex[falling[j].Theme]
	})
	sort.Slice(stable, func(i, j int) bool {
		if curr[stable[i].Theme] != curr[stable[j].Theme] {
			return curr[stable[i].Theme] > curr[stable[j].Theme]
		}
		return vocabIndex[stable[i].Theme] < vocabIndex[stable[j].Theme]
	})

	return Trend{
		Rising:  truncate(rising, topN),
		Falling: truncate(falling, topN),
		Stable:  truncate(stable, topN),
	}
}

// Trajectory labels for aggregate risk posture.
const (
	TrajectoryElevated  = "ELEVATED"
	TrajectoryImproving = "IMPROVING"
	TrajectoryStable    = "STABLE"
)

// TrajectoryLabel classifies the period-over-period movement of average risk
// and intel volume. The thresholds are fixed executive-facing constants, not
// statistically derived.
func TrajectoryLabel(currAvg, prevAvg float64, currCount, prevCount int) (string, string) {
	if prevAvg < 0 {
		prevAvg = 0
	}
	if prevCount < 0 {
		prevCount = 0
	}

	avgDelta := currAvg - prevAvg
	countDelta := currCount - prevCount

	if avgDelta >= 5 || (countDelta >= 30 && currAvg >= prevAvg) {
		return TrajectoryElevated, "Risk/volume increased vs previous period."
	}
	if avgDelta <= -5 && countDelta <= 0 {
		return TrajectoryImproving, "Risk decreased vs previous period."
	}
	return TrajectoryStable, "No material change vs previous period."
}

func truncate(s []ThemeDelta, n int) []ThemeDelta {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// FormatDelta renders a signed delta for trend sections.
func FormatDelta(d int) string {
	if d > 0 {
		return fmt.Sprintf("+%d", d)
	}
	return fmt.Sprintf("%d", d)
}
