package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountDocumentFrequency(t *testing.T) {
	texts := []string{
		"Ransomware ransomware RANSOMWARE everywhere",
		"New ransomware strain drops after phishing lure",
		"Routine phishing roundup",
	}

	c := Count(texts)

	// Repeat mentions inside one text count once.
	assert.Equal(t, 2, c["ransomware"])
	assert.Equal(t, 2, c["phishing"])
	assert.NotContains(t, c, "ddos")
}

func TestCountEmpty(t *testing.T) {
	assert.Empty(t, Count(nil))
	assert.Empty(t, Count([]string{"nothing thematic here"}))
}

func TestTopThemesTieBrokenByVocabularyOrder(t *testing.T) {
	c := Counts{"malware": 3, "phishing": 3, "ddos": 3, "exploit": 1}

	top := TopThemes(c, 3)

	// phishing < exploit < malware < ddos in vocabulary order; exploit is
	// outscored so the tie resolves to phishing, malware, ddos.
	assert.Equal(t, []ThemeCount{
		{Theme: "phishing", Count: 3},
		{Theme: "malware", Count: 3},
		{Theme: "ddos", Count: 3},
	}, top)
}

func TestSummarizeTruncates(t *testing.T) {
	texts := []string{"ransomware phishing credential exploit zero-day"}

	assert.Len(t, Summarize(texts, 2), 2)
	assert.Len(t, Summarize(texts, 0), 0)
	assert.Len(t, Summarize(texts, 100), 5)
}

func TestTrendOfPartition(t *testing.T) {
	curr := Counts{"ransomware": 5, "phishing": 2, "malware": 3}
	prev := Counts{"ransomware": 2, "phishing": 4, "malware": 3, "ddos": 1}

	tr := TrendOf(curr, prev, 10)

	assert.Equal(t, []ThemeDelta{{Theme: "ransomware", Delta: 3}}, tr.Rising)
	assert.Equal(t, []ThemeDelta{
		{Theme: "phishing", Delta: -2},
		{Theme: "ddos", Delta: -1},
	}, tr.Falling)
	assert.Equal(t, []ThemeDelta{{Theme: "malware", Delta: 0}}, tr.Stable)

	// The three lists partition the key union.
	seen := map[string]int{}
	for _, l := range [][]ThemeDelta{tr.Rising, tr.Falling, tr.Stable} {
		for _, d := range l {
			seen[d.Theme]++
		}
	}
	assert.Len(t, seen, 4)
	for theme, n := range seen {
		assert.Equal(t, 1, n, "theme %s appears in more than one list", theme)
	}
}

func TestTrendOfTruncation(t *testing.T) {
	curr := Counts{"ransomware": 9, "phishing": 8, "credential": 7, "exploit": 6}
	prev := Counts{}

	tr := TrendOf(curr, prev, 2)

	assert.Equal(t, []ThemeDelta{
		{Theme: "ransomware", Delta: 9},
		{Theme: "phishing", Delta: 8},
	}, tr.Rising)
	assert.Empty(t, tr.Falling)
	assert.Empty(t, tr.Stable)
}

func TestTrendOfEmptyWindows(t *testing.T) {
	tr := TrendOf(Counts{}, Counts{}, 5)
	assert.Empty(t, tr.Rising)
	assert.Empty(t, tr.Falling)
	assert.Empty(t, tr.Stable)
}

func TestTrajectoryLabel(t *testing.T) {
	tests := []struct {
		name               string
		currAvg, prevAvg   float64
		currCnt, prevCnt   int
		want               string
	}{
		{"avg jump", 62, 55, 100, 100, TrajectoryElevated},
		{"volume surge with flat avg", 55, 55, 140, 100, TrajectoryElevated},
		{"volume surge but avg dropped", 50, 55, 140, 100, TrajectoryStable},
		{"avg drop with volume down", 48, 55, 90, 100, TrajectoryImproving},
		{"avg drop but volume up", 48, 55, 110, 100, TrajectoryStable},
		{"small movement", 57, 55, 105, 100, TrajectoryStable},
		{"exactly +5", 60, 55, 100, 100, TrajectoryElevated},
		{"exactly -5 flat volume", 50, 55, 100, 100, TrajectoryImproving},
		{"no previous period", 60, 0, 50, 0, TrajectoryElevated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rationale := TrajectoryLabel(tt.currAvg, tt.prevAvg, tt.currCnt, tt.prevCnt)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, rationale)
		})
	}
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+3", FormatDelta(3))
	assert.Equal(t, "-2", FormatDelta(-2))
	assert.Equal(t, "0", FormatDelta(0))
}
