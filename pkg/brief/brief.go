// Package brief composes the tiered executive narrative briefs. Composers
// are pure assembly over already-fetched item snapshots; they never talk to
// the platform themselves.
package brief

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/model"
	"github.com/ctiworks/intel-strategy/pkg/scoring"
	"github.com/ctiworks/intel-strategy/pkg/themes"
)

// Clustering knobs for the monthly landscape section.
const (
	maxClusters  = 3
	simThreshold = 0.22
)

// Composer renders daily, weekly and monthly briefs for one organization.
type Composer struct {
	Org       config.OrgProfile
	Scorer    *scoring.Scorer
	Decisions config.Decisions

	// Now stamps report titles and window labels. Overridable in tests.
	Now func() time.Time
}

// NewComposer wires a Composer from a validated config.
func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		Org:       cfg.OrgProfile,
		Scorer:    scoring.NewScorer(cfg.OrgProfile, cfg.Scoring),
		Decisions: cfg.Decisions,
		Now:       time.Now,
	}
}

// Daily builds the 24-hour executive snapshot.
func (c *Composer) Daily(items []model.IntelItem, observables []model.Observable) model.Brief {
	now := c.Now().UTC()

	scored, texts, avg := c.scoreAll(items)
	topItems := take(scored, 8)
	top := themes.Summarize(texts, 7)
	topObs := topObservables(observables, 3)

	posture := riskPosture(avg)

	var b strings.Builder
	fmt.Fprintf(&b, "# Executive Daily Cyber Brief — %s (%s)\n", now.Format(time.DateOnly), c.orgName())
	b.WriteString("**Window:** last 24 hours (UTC)\n\n")

	b.WriteString("## Executive Snapshot\n")
	fmt.Fprintf(&b, "- **Risk posture:** **%s** (Avg risk %.0f/100)\n", posture, avg)
	fmt.Fprintf(&b, "- **Intel volume:** %d reports; %d new observables\n", len(items), len(observables))
	writePrimaryDrivers(&b, top)
	b.WriteString("\n")

	b.WriteString("## Key Decisions (Auto-triage)\n")
	if len(topItems) == 0 {
		b.WriteString("- No reports found in the last 24h.\n")
	} else {
		writeTriage(&b, topItems)
	}
	b.WriteString("\n")

	b.WriteString("## Leadership Actions\n")
	writeBullets(&b, leadershipActions(top))
	b.WriteString("\n")

	b.WriteString("## Technical Annex (for SOC)\n")
	if len(top) > 0 {
		parts := make([]string, 0, len(top))
		for _, t := range top {
			parts = append(parts, fmt.Sprintf("%s (%d)", t.Theme, t.Count))
		}
		fmt.Fprintf(&b, "**Top themes:** %s\n", strings.Join(parts, ", "))
	}
	if len(topObs) > 0 {
		b.WriteString("\n**Top observables (by score):**\n")
		writeObservables(&b, topObs)
	}

	return model.Brief{
		ReportName:  fmt.Sprintf("Executive Daily Cyber Brief — %s", now.Format(time.DateOnly)),
		Description: b.String(),
		TopItems:    topItems,
		ItemCount:   len(items),
		AvgRisk:     avg,
	}
}

// Weekly builds the 7-day brief with week-over-week trend signals.
func (c *Composer) Weekly(curr, prev []model.IntelItem) model.Brief {
	now := c.Now().UTC()

	scored, currTexts, currAvg := c.scoreAll(curr)
	prevAvg := c.averageRisk(prev)
	prevTexts := itemTexts(prev)

	trajectory, reason := themes.TrajectoryLabel(currAvg, prevAvg, len(curr), len(prev))
	top := themes.Summarize(currTexts, 10)
	trend := themes.TrendOf(themes.Count(currTexts), themes.Count(prevTexts), 5)
	exposures := themes.TopExposures(themes.Count(currTexts), 4)

	var b strings.Builder
	fmt.Fprintf(&b, "# Executive Weekly Cyber Risk Brief — Week ending %s (%s)\n", now.Format(time.DateOnly), c.orgName())
	b.WriteString("**Window:** last 7 days (UTC)\n\n")

	b.WriteString("## Executive Snapshot\n")
	fmt.Fprintf(&b, "- **Risk trajectory:** **%s** — %s\n", trajectory, reason)
	fmt.Fprintf(&b, "- **Intel volume:** %d reports (prev %d)\n", len(curr), len(prev))
	writePrimaryDrivers(&b, top)
	b.WriteString("\n")

	b.WriteString("## Strategic Drivers\n")
	writeBullets(&b, strategicDrivers(top, 4))
	b.WriteString("\n")

	b.WriteString("## Trend Signals (Week-over-Week)\n")
	writeTrend(&b, trend, "last week")
	b.WriteString("\n")

	b.WriteString("## Business Exposure Assessment\n")
	writeExposures(&b, exposures)
	b.WriteString("\n")

	b.WriteString("## Top Strategic Risks (Auto-triage)\n")
	writeTriage(&b, take(scored, 8))
	b.WriteString("\n")

	b.WriteString("## Leadership Actions\n")
	writeBullets(&b, leadershipActions(top))

	return model.Brief{
		ReportName:  fmt.Sprintf("Executive Weekly Cyber Risk Brief — Week ending %s", now.Format(time.DateOnly)),
		Description: b.String(),
		TopItems:    take(scored, 10),
		ItemCount:   len(curr),
		AvgRisk:     currAvg,
	}
}

// Monthly builds the landscape assessment over the trailing days window,
// compared against the equal-length window immediately preceding it.
func (c *Composer) Monthly(curr, prev []model.IntelItem, observables []model.Observable, days int) model.Brief {
	now := c.Now().UTC()

	scored, currTexts, currAvg := c.scoreAll(curr)
	prevAvg := c.averageRisk(prev)
	prevTexts := itemTexts(prev)

	trajectory, reason := themes.TrajectoryLabel(currAvg, prevAvg, len(curr), len(prev))

	currCounts := themes.Count(currTexts)
	top := themes.TopThemes(currCounts, 8)
	trend := themes.TrendOf(currCounts, themes.Count(prevTexts), 6)
	exposures := themes.TopExposures(currCounts, 4)
	clusters := themes.ClusterReports(currTexts, maxClusters, simThreshold)
	topObs := topObservables(observables, 10)

	var b strings.Builder
	fmt.Fprintf(&b, "# Executive Cyber Risk Assessment — %s (%s)\n", now.Format("January 2006"), c.orgName())
	fmt.Fprintf(&b, "**Assessment window:** last %d days (UTC)\n\n", days)

	b.WriteString("## Executive Snapshot\n")
	fmt.Fprintf(&b, "- **Risk trajectory:** **%s** — %s\n", trajectory, reason)
	fmt.Fprintf(&b, "- **Average risk score:** %.0f/100 (prev %.0f/100)\n", currAvg, prevAvg)
	fmt.Fprintf(&b, "- **Intel volume:** %d reports (prev %d); %d observables created\n", len(curr), len(prev), len(observables))
	writePrimaryDrivers(&b, top)
	b.WriteString("\n")

	b.WriteString("## Strategic Drivers (Why this matters)\n")
	writeBullets(&b, strategicDrivers(top, 4))
	b.WriteString("\n")

	b.WriteString("## Business Exposure Assessment (So what)\n")
	writeExposures(&b, exposures)
	b.WriteString("\n")

	b.WriteString("## Trend Signals (Period-over-Period)\n")
	writeTrend(&b, trend, "previous period")
	b.WriteString("\n")

	b.WriteString("## Dominant Activity Clusters (Noise reduced)\n")
	if len(clusters) > 0 {
		for i, cl := range clusters {
			if i >= 4 {
				break
			}
			kws := "mixed indicators"
			if len(cl.Keywords) > 0 {
				kws = strings.Join(cl.Keywords, ", ")
			}
			fmt.Fprintf(&b, "- **Cluster %d**: %d related reports — likely themes: %s\n", i+1, cl.Count(), kws)
		}
	} else {
		b.WriteString("- Clustering unavailable (insufficient text).\n")
	}
	b.WriteString("\n")

	b.WriteString("## Leadership Actions (Decisions)\n")
	writeBullets(&b, leadershipActions(top))
	b.WriteString("\n")

	b.WriteString("## Forward Outlook (Next 30-60 days)\n")
	writeBullets(&b, forwardOutlook(top))
	b.WriteString("\n")

	b.WriteString("---\n")
	b.WriteString("## Technical Annex (SOC / Engineering)\n")
	b.WriteString("### Top Strategic Risks (Auto-triage)\n")
	writeTriage(&b, take(scored, 10))
	b.WriteString("\n")
	b.WriteString("### Top Observables (by score)\n")
	if len(topObs) == 0 {
		b.WriteString("- No observables in this period.\n")
	} else {
		writeObservables(&b, topObs)
	}

	return model.Brief{
		ReportName:  fmt.Sprintf("Executive Cyber Risk Assessment — %s", now.Format("January 2006")),
		Description: b.String(),
		TopItems:    take(scored, 10),
		ItemCount:   len(curr),
		AvgRisk:     currAvg,
	}
}

// scoreAll triages every item and returns the list sorted by risk
// descending, the item texts in input order, and the average risk (0 when
// the window is empty).
func (c *Composer) scoreAll(items []model.IntelItem) ([]model.ScoredItem, []string, float64) {
	scored := make([]model.ScoredItem, 0, len(items))
	texts := make([]string, 0, len(items))
	sum := 0
	for _, it := range items {
		r := c.Scorer.Compute(it)
		scored = append(scored, model.ScoredItem{
			ID:        it.ID,
			Name:      itemName(it),
			CreatedAt: it.CreatedAt,
			Risk:      r.Risk,
			Decision:  scoring.Decision(r.Risk, c.Decisions),
		})
		texts = append(texts, it.Text())
		sum += r.Risk
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Risk > scored[j].Risk })

	avg := 0.0
	if len(scored) > 0 {
		avg = float64(sum) / float64(len(scored))
	}
	return scored, texts, avg
}

func (c *Composer) averageRisk(items []model.IntelItem) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += c.Scorer.Compute(it).Risk
	}
	return float64(sum) / float64(len(items))
}

func (c *Composer) orgName() string {
	if c.Org.Name == "" {
		return "Org"
	}
	return c.Org.Name
}

// riskPosture buckets average risk for the daily snapshot.
func riskPosture(avg float64) string {
	switch {
	case avg >= 70:
		return "ELEVATED"
	case avg >= 55:
		return "ATTENTION"
	default:
		return "BASELINE"
	}
}

func itemName(it model.IntelItem) string {
	if it.Name == "" {
		return "Report"
	}
	return it.Name
}

func itemTexts(items []model.IntelItem) []string {
	texts := make([]string, 0, len(items))
	for _, it := range items {
		texts = append(texts, it.Text())
	}
	return texts
}

func topObservables(observables []model.Observable, n int) []model.Observable {
	sorted := make([]model.Observable, len(observables))
	copy(sorted, observables)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func take(s []model.ScoredItem, n int) []model.ScoredItem {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func writePrimaryDrivers(b *strings.Builder, top []themes.ThemeCount) {
	if len(top) == 0 {
		return
	}
	names := make([]string, 0, 3)
	for i, t := range top {
		if i >= 3 {
			break
		}
		names = append(names, t.Theme)
	}
	fmt.Fprintf(b, "- **Primary drivers:** %s\n", strings.Join(names, ", "))
}

func writeTriage(b *strings.Builder, items []model.ScoredItem) {
	for _, it := range items {
		fmt.Fprintf(b, "- **[%s]** (Risk %d/100) — %s\n", it.Decision, it.Risk, it.Name)
	}
}

func writeBullets(b *strings.Builder, bullets []string) {
	for _, bl := range bullets {
		fmt.Fprintf(b, "- %s\n", bl)
	}
}

func writeTrend(b *strings.Builder, trend themes.Trend, prevLabel string) {
	if len(trend.Rising) > 0 {
		b.WriteString("**Rising themes:**\n")
		for _, td := range trend.Rising {
			fmt.Fprintf(b, "- %s: %s\n", td.Theme, themes.FormatDelta(td.Delta))
		}
	} else {
		fmt.Fprintf(b, "- No rising themes detected vs %s.\n", prevLabel)
	}
	if len(trend.Falling) > 0 {
		b.WriteString("\n**Falling themes:**\n")
		for _, td := range trend.Falling {
			fmt.Fprintf(b, "- %s: %s\n", td.Theme, themes.FormatDelta(td.Delta))
		}
	}
}

func writeExposures(b *strings.Builder, exposures []themes.ExposureCount) {
	if len(exposures) == 0 {
		b.WriteString("- No dominant exposure areas detected.\n")
		return
	}
	for _, e := range exposures {
		fmt.Fprintf(b, "- **%s** — signal strength %d\n", e.Category, e.Count)
	}
}

func writeObservables(b *strings.Builder, obs []model.Observable) {
	for _, o := range obs {
		et := o.EntityType
		if et == "" {
			et = "Observable"
		}
		fmt.Fprintf(b, "- %s (Score %d) — `%s`\n", et, o.Score, o.Value)
	}
}
