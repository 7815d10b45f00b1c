package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopExposuresAggregates(t *testing.T) {
	c := Counts{"phishing": 4, "credential": 3, "ransomware": 5}

	out := TopExposures(c, 10)

	require.Len(t, out, 3)
	assert.Equal(t, ExposureCount{Category: "Backup/Recovery & endpoint resilience", Count: 5}, out[0])
	assert.Equal(t, ExposureCount{Category: "Identity & Access (email/user workflows)", Count: 4}, out[1])
	assert.Equal(t, ExposureCount{Category: "Identity & Access (accounts/privilege)", Count: 3}, out[2])
}

func TestTopExposuresTieBrokenByCategoryName(t *testing.T) {
	c := Counts{"ddos": 2, "c2": 2}

	out := TopExposures(c, 10)

	require.Len(t, out, 2)
	assert.Equal(t, "Availability & online service resilience", out[0].Category)
	assert.Equal(t, "Network egress controls & detection", out[1].Category)
}

func TestTopExposuresTruncatesAndSkipsUnmapped(t *testing.T) {
	c := Counts{"phishing": 4, "ransomware": 5, "exploit": 3, "unknown-theme": 9}

	out := TopExposures(c, 2)

	require.Len(t, out, 2)
	assert.Equal(t, 5, out[0].Count)
	assert.Equal(t, 4, out[1].Count)
}

func TestTopExposuresEmpty(t *testing.T) {
	assert.Empty(t, TopExposures(Counts{}, 5))
}

func TestEveryVocabularyThemeHasExposure(t *testing.T) {
	for _, theme := range Vocabulary {
		assert.Contains(t, themeExposure, theme)
	}
}
