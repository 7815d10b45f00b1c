package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/model"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		Weights: config.Weights{
			SourceReliability: f(0.10),
			Confidence:        f(0.25),
			Severity:          f(0.25),
			Relevance:         f(0.20),
			Recency:           f(0.20),
		},
		BaseSeverity: 10,
		SeverityKeywords: map[string]int{
			"ransomware": 15,
			"zero-day":   20,
			"rce":        15,
		},
		Recency: config.RecencyConfig{MaxDays: 14, MaxPoints: 25},
	}
}

func testScorer(org config.OrgProfile) *Scorer {
	s := NewScorer(org, testScoringConfig())
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestComputeHighRiskScenario(t *testing.T) {
	s := testScorer(config.OrgProfile{})
	item := model.IntelItem{
		ID:          "r1",
		Name:        "Ransomware crew weaponizing fresh zero-day",
		Description: "Active campaign observed in the wild.",
		CreatedAt:   fixedNow.Format(time.RFC3339),
		Confidence:  i(90),
	}

	r := s.Compute(item)

	// source 60, confidence 90, severity 10+15+20=45, relevance 0, recency 25.
	assert.Equal(t, 60, r.Components.Source)
	assert.Equal(t, 90, r.Components.Confidence)
	assert.Equal(t, 45, r.Components.Severity)
	assert.Equal(t, 0, r.Components.Relevance)
	assert.Equal(t, 25, r.Components.Recency)

	// 0.10*60 + 0.25*90 + 0.25*90 + 0.20*0 + 0.20*100 = 71
	assert.Equal(t, 71, r.Risk)
	assert.GreaterOrEqual(t, r.Risk, 70)
}

func TestComputeBounds(t *testing.T) {
	org := config.OrgProfile{
		SectorKeywords: []string{"bank", "financial", "payment"},
		GeoKeywords:    []string{"europe", "germany"},
		TechKeywords:   []string{"vmware", "citrix"},
	}
	s := testScorer(org)

	items := []model.IntelItem{
		{},
		{Name: "ransomware zero-day rce bank financial payment europe germany vmware citrix", Confidence: i(100), CreatedAt: fixedNow.Format(time.RFC3339)},
		{Name: "quiet week", Confidence: i(0), CreatedAt: fixedNow.AddDate(0, -3, 0).Format(time.RFC3339)},
		{Description: "ancient ransomware writeup", CreatedAt: "1999-01-01T00:00:00Z"},
	}
	for _, it := range items {
		r := s.Compute(it)
		assert.GreaterOrEqual(t, r.Risk, 0)
		assert.LessOrEqual(t, r.Risk, 100)
		assert.LessOrEqual(t, r.Components.Severity, 50)
		assert.LessOrEqual(t, r.Components.Relevance, 25)
		assert.LessOrEqual(t, r.Components.Recency, 25)
		assert.GreaterOrEqual(t, r.Components.Confidence, 0)
		assert.LessOrEqual(t, r.Components.Confidence, 100)
	}
}

func TestConfidenceNormalization(t *testing.T) {
	s := testScorer(config.OrgProfile{})

	assert.Equal(t, 50, s.Compute(model.IntelItem{CreatedAt: "x"}).Components.Confidence)
	assert.Equal(t, 0, s.Compute(model.IntelItem{Confidence: i(-5)}).Components.Confidence)
	assert.Equal(t, 100, s.Compute(model.IntelItem{Confidence: i(150)}).Components.Confidence)
	assert.Equal(t, 73, s.Compute(model.IntelItem{Confidence: i(73)}).Components.Confidence)
}

func TestSeverityCap(t *testing.T) {
	s := testScorer(config.OrgProfile{})
	item := model.IntelItem{Name: "ransomware zero-day rce triple threat"}

	// 10 + 15 + 20 + 15 = 60, capped at 50.
	assert.Equal(t, 50, s.Compute(item).Components.Severity)
}

func TestRelevanceScoring(t *testing.T) {
	org := config.OrgProfile{
		SectorKeywords: []string{"bank"},
		GeoKeywords:    []string{"europe"},
		TechKeywords:   []string{"vmware"},
	}
	s := testScorer(org)

	// 2 (sector) + 2 (geo) + 1 (tech) = 5 hits, * 3 = 15.
	r := s.Compute(model.IntelItem{Name: "Bank intrusion in Europe via VMware flaw"})
	assert.Equal(t, 15, r.Components.Relevance)

	// Unrelated text scores zero.
	assert.Equal(t, 0, s.Compute(model.IntelItem{Name: "misc noise"}).Components.Relevance)
}

func TestRecencyDecay(t *testing.T) {
	s := testScorer(config.OrgProfile{})

	at := func(age time.Duration) int {
		item := model.IntelItem{CreatedAt: fixedNow.Add(-age).Format(time.RFC3339)}
		return s.Compute(item).Components.Recency
	}

	assert.Equal(t, 25, at(0))
	assert.Equal(t, 19, at(84*time.Hour))  // 3.5 days: 25 * 0.75
	assert.Equal(t, 0, at(14*24*time.Hour))
	assert.Equal(t, 0, at(40*24*time.Hour))

	// Non-increasing in age.
	prev := 25
	for d := 1; d <= 20; d++ {
		cur := at(time.Duration(d) * 24 * time.Hour)
		assert.LessOrEqual(t, cur, prev, "recency increased at age %dd", d)
		prev = cur
	}
}

func TestRecencyMalformedTimestampCountsAsNow(t *testing.T) {
	s := testScorer(config.OrgProfile{})

	// Leniency policy: bad timestamps keep the brief available at the cost
	// of full recency credit.
	assert.Equal(t, 25, s.Compute(model.IntelItem{CreatedAt: "not-a-date"}).Components.Recency)
	assert.Equal(t, 25, s.Compute(model.IntelItem{}).Components.Recency)
}

func TestRecencyFutureTimestampFloorsAtZeroAge(t *testing.T) {
	s := testScorer(config.OrgProfile{})

	future := fixedNow.Add(48 * time.Hour).Format(time.RFC3339)
	assert.Equal(t, 25, s.Compute(model.IntelItem{CreatedAt: future}).Components.Recency)
}

func TestDecisionThresholds(t *testing.T) {
	d := config.Decisions{BlockNow: i(80), Monitor: i(60)}

	assert.Equal(t, DecisionBlock, Decision(80, d))
	assert.Equal(t, DecisionMonitor, Decision(60, d))
	assert.Equal(t, DecisionIgnore, Decision(59, d))
	assert.Equal(t, DecisionBlock, Decision(100, d))
	assert.Equal(t, DecisionIgnore, Decision(0, d))
}

func TestDecisionMonotonicInRisk(t *testing.T) {
	d := config.Decisions{BlockNow: i(80), Monitor: i(60)}
	rank := map[string]int{DecisionIgnore: 0, DecisionMonitor: 1, DecisionBlock: 2}

	prev := 0
	for risk := 0; risk <= 100; risk++ {
		cur, ok := rank[Decision(risk, d)]
		require.True(t, ok)
		assert.GreaterOrEqual(t, cur, prev, "label downgraded at risk %d", risk)
		prev = cur
	}
}

func TestEqualThresholdsCollapseMonitorBand(t *testing.T) {
	d := config.Decisions{BlockNow: i(70), Monitor: i(70)}

	assert.Equal(t, DecisionBlock, Decision(70, d))
	assert.Equal(t, DecisionIgnore, Decision(69, d))
}

func ExampleDecision() {
	d := config.Decisions{BlockNow: i(80), Monitor: i(60)}
	fmt.Println(Decision(85, d), Decision(65, d), Decision(20, d))
	// Output: BLOCK MONITOR IGNORE
}
