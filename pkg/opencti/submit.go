package opencti

import (
	"context"

	"github.com/ctiworks/intel-strategy/pkg/logger"
	"github.com/ctiworks/intel-strategy/pkg/model"
)

// SubmitBrief publishes a finished brief as a platform report, tagged with a
// strategy label and its cadence. Label resolution uses a cache scoped to
// this single submission; tagging failures downgrade to an untagged report
// rather than losing the brief.
func (c *Client) SubmitBrief(ctx context.Context, b model.Brief, cadence string, confidence int) (string, error) {
	cache := NewLabelCache()
	var labelIDs []string
	for _, value := range []string{"strategy-brief", cadence} {
		id, err := c.ResolveLabel(ctx, cache, value)
		if err != nil {
			logger.Log.Warnf("label %q unresolved, submitting untagged: %v", value, err)
			labelIDs = nil
			break
		}
		labelIDs = append(labelIDs, id)
	}

	return c.CreateReport(ctx, b.ReportName, b.Description, confidence, labelIDs)
}
