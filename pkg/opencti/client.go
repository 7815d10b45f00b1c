// Package opencti is a minimal GraphQL client for the intelligence platform
// (OpenCTI 6.9.x). It covers exactly what the strategy engine needs: listing
// windowed reports and observables, and submitting finished briefs.
package opencti

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/model"
)

// Client talks to one OpenCTI instance.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient builds a Client. The token is required.
func NewClient(cfg config.OpenCTIConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("opencti: token is not set")
	}

	limit := rate.Inf
	burst := 1
	if cfg.RPM > 0 {
		limit = rate.Limit(float64(cfg.RPM) / 60.0)
		burst = cfg.RPM
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/graphql",
		token:    cfg.Token,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(limit, burst),
	}, nil
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// graphql posts one query and decodes the data payload into out.
func (c *Client) graphql(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.token)
	req.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("opencti api error (status %d): %s", res.StatusCode, string(body))
	}

	var env gqlEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}
	if len(env.Errors) > 0 {
		return fmt.Errorf("opencti graphql error: %s", env.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unmarshal data failed: %w", err)
		}
	}
	return nil
}

func windowFilters(start, end time.Time) map[string]any {
	return map[string]any{
		"mode": "and",
		"filters": []map[string]any{
			{"key": "created_at", "values": []string{iso(start)}, "operator": "gt"},
			{"key": "created_at", "values": []string{iso(end)}, "operator": "lt"},
		},
		"filterGroups": []any{},
	}
}

func iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

const reportsQuery = `
query Reports($filters: FilterGroup, $first: Int!) {
  reports(filters: $filters, first: $first, orderBy: created_at, orderMode: desc) {
    edges {
      node {
        id
        name
        description
        created_at
        confidence
      }
    }
  }
}`

// ListReports fetches the reports created inside (start, end), newest first.
func (c *Client) ListReports(ctx context.Context, start, end time.Time, first int) ([]model.IntelItem, error) {
	var data struct {
		Reports struct {
			Edges []struct {
				Node struct {
					ID          string `json:"id"`
					Name        string `json:"name"`
					Description string `json:"description"`
					CreatedAt   string `json:"created_at"`
					Confidence  *int   `json:"confidence"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"reports"`
	}

	vars := map[string]any{"filters": windowFilters(start, end), "first": first}
	if err := c.graphql(ctx, reportsQuery, vars, &data); err != nil {
		return nil, err
	}

	items := make([]model.IntelItem, 0, len(data.Reports.Edges))
	for _, e := range data.Reports.Edges {
		items = append(items, model.IntelItem{
			ID:          e.Node.ID,
			Name:        e.Node.Name,
			Description: e.Node.Description,
			CreatedAt:   e.Node.CreatedAt,
			Confidence:  e.Node.Confidence,
		})
	}
	return items, nil
}

const observablesQuery = `
query Observables($filters: FilterGroup, $first: Int!) {
  stixCyberObservables(filters: $filters, first: $first, orderBy: created_at, orderMode: desc) {
    edges {
      node {
        id
        observable_value
        entity_type
        created_at
        x_opencti_score
      }
    }
  }
}`

// ListObservables fetches the observables created inside (start, end).
func (c *Client) ListObservables(ctx context.Context, start, end time.Time, first int) ([]model.Observable, error) {
	var data struct {
		StixCyberObservables struct {
			Edges []struct {
				Node struct {
					ID         string `json:"id"`
					Value      string `json:"observable_value"`
					EntityType string `json:"entity_type"`
					CreatedAt  string `json:"created_at"`
					Score      *int   `json:"x_opencti_score"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"stixCyberObservables"`
	}

	vars := map[string]any{"filters": windowFilters(start, end), "first": first}
	if err := c.graphql(ctx, observablesQuery, vars, &data); err != nil {
		return nil, err
	}

	obs := make([]model.Observable, 0, len(data.StixCyberObservables.Edges))
	for _, e := range data.StixCyberObservables.Edges {
		score := 0
		if e.Node.Score != nil {
			score = *e.Node.Score
		}
		obs = append(obs, model.Observable{
			ID:         e.Node.ID,
			Value:      e.Node.Value,
			EntityType: e.Node.EntityType,
			CreatedAt:  e.Node.CreatedAt,
			Score:      score,
		})
	}
	return obs, nil
}

const createReportMutation = `
mutation CreateReport($input: ReportAddInput!) {
  reportAdd(input: $input) { id }
}`

// CreateReport submits a finished brief as a threat-report and returns its
// platform ID. labelIDs may be empty.
func (c *Client) CreateReport(ctx context.Context, name, description string, confidence int, labelIDs []string) (string, error) {
	input := map[string]any{
		"name":         name,
		"description":  description,
		"confidence":   confidence,
		"published":    iso(time.Now()),
		"report_types": []string{"threat-report"},
	}
	if len(labelIDs) > 0 {
		input["objectLabel"] = labelIDs
	}

	var data struct {
		ReportAdd struct {
			ID string `json:"id"`
		} `json:"reportAdd"`
	}
	if err := c.graphql(ctx, createReportMutation, map[string]any{"input": input}, &data); err != nil {
		return "", err
	}
	return data.ReportAdd.ID, nil
}
