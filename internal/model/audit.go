package model

import "time"

// AuditReport collects everything an audit learned about one digest.
// It is filled in step by step by the audit pipeline.
type AuditReport struct {
	// Digest is the attacked digest, lowercase hex.
	Digest string `json:"digest"`

	// Label is an optional caller-supplied name for the digest, such as a
	// user name from the input file.
	Label string `json:"label,omitempty"`

	// Results holds one entry per engine run, in execution order.
	Results []AttackResult `json:"results"`

	// Cracked is true when any engine recovered the plaintext.
	Cracked bool `json:"cracked"`

	// Plaintext is the recovered password. Empty unless Cracked.
	Plaintext string `json:"plaintext,omitempty"`

	// Strength is the classifier label of the recovered password.
	// Nil unless Cracked and a classifier step ran.
	Strength *Label `json:"strength,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// TimedOut is true when the audit was cancelled before all steps ran.
	TimedOut bool `json:"timed_out"`

	// Error holds the error that stopped the audit, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// StartedAt and FinishedAt bracket the audit.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewAuditReport returns an empty report for digest.
func NewAuditReport(digest string) *AuditReport {
	return &AuditReport{
		Digest:         digest,
		Results:        make([]AttackResult, 0),
		PerformedSteps: make([]string, 0),
		StartedAt:      time.Now(),
	}
}

// AddResult records an engine outcome and marks the report cracked on a match.
func (r *AuditReport) AddResult(result AttackResult) {
	r.Results = append(r.Results, result)
	if result.Found && !r.Cracked {
		r.Cracked = true
		r.Plaintext = result.Plaintext
	}
}

// TotalAttempts sums the attempts of every engine run.
func (r *AuditReport) TotalAttempts() uint64 {
	var total uint64
	for _, res := range r.Results {
		total += res.Attempts
	}
	return total
}

// CrackedBy returns the engine that recovered the plaintext, or "" when the
// digest was not cracked.
func (r *AuditReport) CrackedBy() Engine {
	for _, res := range r.Results {
		if res.Found {
			return res.Engine
		}
	}
	return ""
}

// AuditSummary aggregates a batch of audit reports.
type AuditSummary struct {
	Total    int                       `json:"total"`
	Cracked  int                       `json:"cracked"`
	Failed   int                       `json:"failed"`
	ByEngine map[Engine]int            `json:"by_engine"`
	ByReason map[TerminationReason]int `json:"by_reason"`
	ByLabel  map[Label]int             `json:"by_strength"`
}

// Summarize builds an AuditSummary. Nil reports are counted as failed.
func Summarize(reports []*AuditReport) AuditSummary {
	s := AuditSummary{
		Total:    len(reports),
		ByEngine: make(map[Engine]int),
		ByReason: make(map[TerminationReason]int),
		ByLabel:  make(map[Label]int),
	}
	for _, r := range reports {
		if r == nil || r.Error != nil || r.ErrorMessage != "" {
			s.Failed++
		}
		if r == nil {
			continue
		}
		for _, res := range r.Results {
			s.ByReason[res.TerminationReason]++
		}
		if r.Cracked {
			s.Cracked++
			s.ByEngine[r.CrackedBy()]++
			if r.Strength != nil {
				s.ByLabel[*r.Strength]++
			}
		}
	}
	return s
}

// CrackRate returns the fraction of digests cracked, or 0 for an empty batch.
func (s AuditSummary) CrackRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Cracked) / float64(s.Total)
}
