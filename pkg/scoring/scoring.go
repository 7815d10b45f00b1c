package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/model"
)

// Decision labels assigned by auto-triage.
const (
	DecisionBlock   = "BLOCK"
	DecisionMonitor = "MONITOR"
	DecisionIgnore  = "IGNORE"
)

// Component scale constants. Severity and relevance/recency are rescaled onto
// a comparable contribution range before weighting; these are part of the
// score formula, not tunables.
const (
	sourceBaseline    = 60 // undifferentiated source reliability, reserved for per-source reputation
	defaultConfidence = 50
	severityCap       = 50
	relevanceCap      = 25
)

// Components are the individually bounded sub-scores of one item.
type Components struct {
	Source     int
	Confidence int
	Severity   int
	Relevance  int
	Recency    int
}

// Result is the outcome of scoring one item.
type Result struct {
	Risk       int // clamped to [0,100]
	Components Components
}

// Scorer computes weighted risk scores against one org profile and scoring
// config. Deterministic given its inputs and Now.
type Scorer struct {
	Org config.OrgProfile
	Cfg config.ScoringConfig

	// Now is the wall clock, used only for age computation. Overridable in
	// tests.
	Now func() time.Time
}

// NewScorer builds a Scorer from a validated config.
func NewScorer(org config.OrgProfile, cfg config.ScoringConfig) *Scorer {
	return &Scorer{Org: org, Cfg: cfg, Now: time.Now}
}

// Compute scores a single item. The config must have passed
// config.Validate; weights are dereferenced without nil checks.
func (s *Scorer) Compute(item model.IntelItem) Result {
	text := item.Text()

	src := sourceBaseline
	conf := normalizeConfidence(item.Confidence)
	sev := s.computeSeverity(text)
	rel := s.computeRelevance(text)
	rec := s.computeRecency(item.CreatedAt)

	w := s.Cfg.Weights
	score := *w.SourceReliability*float64(src) +
		*w.Confidence*float64(conf) +
		*w.Severity*float64(sev*2) +
		*w.Relevance*float64(rel*4) +
		*w.Recency*float64(rec*4)

	final := int(math.Round(math.Max(0, math.Min(100, score))))
	return Result{
		Risk:       final,
		Components: Components{Source: src, Confidence: conf, Severity: sev, Relevance: rel, Recency: rec},
	}
}

// Decision maps a risk score to its triage label. Monotonic in risk for
// fixed thresholds.
func Decision(risk int, d config.Decisions) string {
	if risk >= *d.BlockNow {
		return DecisionBlock
	}
	if risk >= *d.Monitor {
		return DecisionMonitor
	}
	return DecisionIgnore
}

func normalizeConfidence(conf *int) int {
	if conf == nil {
		return defaultConfidence
	}
	c := *conf
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func (s *Scorer) computeSeverity(text string) int {
	score := s.Cfg.BaseSeverity
	if text == "" {
		return score
	}
	t := strings.ToLower(text)
	for kw, pts := range s.Cfg.SeverityKeywords {
		if strings.Contains(t, strings.ToLower(kw)) {
			score += pts
		}
	}
	if score > severityCap {
		return severityCap
	}
	return score
}

func (s *Scorer) computeRelevance(text string) int {
	if text == "" {
		return 0
	}
	t := strings.ToLower(text)
	hits := 0
	for _, k := range s.Org.SectorKeywords {
		if strings.Contains(t, strings.ToLower(k)) {
			hits += 2
		}
	}
	for _, k := range s.Org.GeoKeywords {
		if strings.Contains(t, strings.ToLower(k)) {
			hits += 2
		}
	}
	for _, k := range s.Org.TechKeywords {
		if strings.Contains(t, strings.ToLower(k)) {
			hits++
		}
	}
	if v := hits * 3; v < relevanceCap {
		return v
	}
	return relevanceCap
}

func (s *Scorer) computeRecency(createdAt string) int {
	maxDays := s.Cfg.Recency.MaxDays
	maxPoints := s.Cfg.Recency.MaxPoints

	d := s.daysOld(createdAt)
	if d >= maxDays {
		return 0
	}
	return int(math.Round(maxPoints * (1.0 - d/maxDays)))
}

// daysOld returns the wall-clock age of createdAt in days, floored at 0.
// Malformed timestamps deliberately count as "now": the brief stays
// available at the cost of crediting full recency to bad data.
func (s *Scorer) daysOld(createdAt string) float64 {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return 0
	}
	age := s.Now().Sub(t).Seconds() / 86400.0
	if age < 0 {
		return 0
	}
	return age
}
