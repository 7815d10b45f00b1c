package themes

import "sort"

// themeExposure maps each theme to exactly one business-exposure category.
// Static data, loaded once at process start.
var themeExposure = map[string]string{
	"phishing":     "Identity & Access (email/user workflows)",
	"credential":   "Identity & Access (accounts/privilege)",
	"exploit":      "Internet-facing infrastructure (patching/WAF/IPS)",
	"zero-day":     "Internet-facing infrastructure (rapid mitigation)",
	"ransomware":   "Backup/Recovery & endpoint resilience",
	"apt":          "Long-horizon intrusion risk (monitoring/hunting)",
	"supply chain": "Third-party & software supply chain",
	"c2":           "Network egress controls & detection",
	"ddos":         "Availability & online service resilience",
	"malware":      "Endpoint controls & delivery vectors",
	"botnet":       "Perimeter exposure & service hardening",
}

// ExposureCount is one (exposure category, aggregate signal strength) entry.
type ExposureCount struct {
	Category string
	Count    int
}

// TopExposures aggregates theme counts into business-exposure categories and
// returns the topN by aggregate count, descending. Themes without a mapping
// are ignored.
func TopExposures(c Counts, topN int) []ExposureCount {
	agg := map[string]int{}
	for theme, cnt := range c {
		if exp, ok := themeExposure[theme]; ok {
			agg[exp] += cnt
		}
	}

	out := make([]ExposureCount, 0, len(agg))
	for cat, cnt := range agg {
		out = append(out, ExposureCount{Category: cat, Count: cnt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
