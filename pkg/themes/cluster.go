package themes

import (
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`[a-z0-9]{4,}`)

// stopwords excludes common English function words plus domain filler that
// would otherwise glue every report together.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "into": {}, "your": {}, "are": {}, "was": {}, "were": {},
	"has": {}, "have": {}, "not": {}, "but": {}, "new": {}, "using": {},
	"used": {}, "over": {}, "under": {}, "via": {}, "its": {}, "their": {},
	"they": {}, "them": {}, "will": {}, "can": {}, "may": {},
	"attack": {}, "attacks": {}, "threat": {}, "threats": {},
	"report": {}, "reports": {},
}

// Cluster is a group of input texts whose keyword bags are mutually similar.
type Cluster struct {
	Members  []int               // indices into the input text slice
	Centroid map[string]struct{} // running union of member bags
	Keywords []string            // up to 6 representative centroid tokens
}

// Count returns the number of member texts.
func (c Cluster) Count() int { return len(c.Members) }

// ClusterReports groups texts by greedy single-pass Jaccard assignment over
// keyword bags. Each text joins the first existing cluster whose centroid
// similarity reaches simThreshold, otherwise starts a new one. Clusters are
// then sorted by size; everything past maxClusters is merged into a single
// overflow cluster, so at most maxClusters+1 clusters are returned.
//
// First-fit assignment makes the result order-dependent: callers must keep
// input order stable for reproducible output.
func ClusterReports(texts []string, maxClusters int, simThreshold float64) []Cluster {
	clusters := []Cluster{}

	for i, text := range texts {
		b := bag(text)
		placed := false
		for ci := range clusters {
			if jaccard(b, clusters[ci].Centroid) >= simThreshold {
				clusters[ci].Members = append(clusters[ci].Members, i)
				for tok := range b {
					clusters[ci].Centroid[tok] = struct{}{}
				}
				placed = true
				break
			}
		}
		if !placed {
			centroid := make(map[string]struct{}, len(b))
			for tok := range b {
				centroid[tok] = struct{}{}
			}
			clusters = append(clusters, Cluster{Members: []int{i}, Centroid: centroid})
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].Members) > len(clusters[j].Members)
	})

	kept := clusters
	if len(clusters) > maxClusters {
		kept = clusters[:maxClusters]
		overflow := Cluster{Centroid: map[string]struct{}{}}
		for _, rest := range clusters[maxClusters:] {
			overflow.Members = append(overflow.Members, rest.Members...)
			for tok := range rest.Centroid {
				overflow.Centroid[tok] = struct{}{}
			}
		}
		kept = append(kept, overflow)
	}

	for ci := range kept {
		kept[ci].Keywords = representativeKeywords(kept[ci].Centroid, 6)
	}
	return kept
}

// bag tokenizes a text into its set of lowercase alphanumeric tokens of
// length >= 4, minus stopwords.
func bag(text string) map[string]struct{} {
	toks := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := map[string]struct{}{}
	for _, t := range toks {
		if _, stop := stopwords[t]; stop {
			continue
		}
		out[t] = struct{}{}
	}
	return out
}

// jaccard is |A∩B| / |A∪B|, 0 when either side is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// representativeKeywords picks up to n centroid tokens. Every token appears
// exactly once in the centroid set, so presence counts tie across the board
// and lexicographic order keeps the selection deterministic.
func representativeKeywords(centroid map[string]struct{}, n int) []string {
	toks := make([]string, 0, len(centroid))
	for t := range centroid {
		toks = append(toks, t)
	}
	sort.Strings(toks)
	if len(toks) > n {
		toks = toks[:n]
	}
	return toks
}
