package model

// IntelItem is a single report snapshot fetched from the intelligence
// platform for one time window. Immutable once fetched.
type IntelItem struct {
	ID          string
	Name        string
	Description string
	CreatedAt   string // RFC3339; malformed values are tolerated downstream
	Confidence  *int   // 0-100, nil when the platform reports none
}

// Text returns the scoring/analysis text of the item.
func (it IntelItem) Text() string {
	return it.Name + "\n" + it.Description
}

// Observable is a platform indicator (IP, domain, hash, URL). Annex display
// only; observables are never risk-scored.
type Observable struct {
	ID         string
	Value      string
	EntityType string
	CreatedAt  string
	Score      int
}

// ScoredItem is an IntelItem after risk scoring and auto-triage.
type ScoredItem struct {
	ID        string
	Name      string
	CreatedAt string
	Risk      int
	Decision  string
}

// Brief is the final narrative artifact. Created fresh on every run and
// handed to the caller for persistence; never mutated afterwards.
type Brief struct {
	ReportName  string
	Description string
	TopItems    []ScoredItem

	// Window statistics, carried for archiving.
	ItemCount int
	AvgRisk   float64
}

// RunResult identifies the report produced by one cadence run.
type RunResult struct {
	ReportID string
	Name     string
}
