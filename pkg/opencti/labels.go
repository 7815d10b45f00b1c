package opencti

import (
	"context"
	"fmt"
)

// LabelCache memoizes label value -> platform ID lookups for one run. It is
// passed explicitly into calls and never shared across runs, so a stale
// platform-side change can survive at most one brief cycle.
type LabelCache struct {
	ids map[string]string
}

// NewLabelCache returns an empty run-scoped cache.
func NewLabelCache() *LabelCache {
	return &LabelCache{ids: map[string]string{}}
}

const labelsQuery = `
query Labels($search: String) {
  labels(search: $search, first: 10) {
    edges { node { id value } }
  }
}`

const labelAddMutation = `
mutation LabelAdd($input: LabelAddInput!) {
  labelAdd(input: $input) { id }
}`

// ResolveLabel returns the platform ID for a label value, creating the label
// when it does not exist yet.
func (c *Client) ResolveLabel(ctx context.Context, cache *LabelCache, value string) (string, error) {
	if id, ok := cache.ids[value]; ok {
		return id, nil
	}

	var data struct {
		Labels struct {
			Edges []struct {
				Node struct {
					ID    string `json:"id"`
					Value string `json:"value"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"labels"`
	}
	if err := c.graphql(ctx, labelsQuery, map[string]any{"search": value}, &data); err != nil {
		return "", err
	}
	for _, e := range data.Labels.Edges {
		if e.Node.Value == value {
			cache.ids[value] = e.Node.ID
			return e.Node.ID, nil
		}
	}

	var created struct {
		LabelAdd struct {
			ID string `json:"id"`
		} `json:"labelAdd"`
	}
	input := map[string]any{"input": map[string]any{"value": value}}
	if err := c.graphql(ctx, labelAddMutation, input, &created); err != nil {
		return "", fmt.Errorf("create label %q: %w", value, err)
	}
	cache.ids[value] = created.LabelAdd.ID
	return created.LabelAdd.ID, nil
}
