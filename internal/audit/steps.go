package audit

import (
	"context"
	"log/slog"

	"github.com/nao1215/smartpass/internal/attack"
	"github.com/nao1215/smartpass/internal/classifier"
	"github.com/nao1215/smartpass/internal/database"
	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/model"
	"github.com/nao1215/smartpass/internal/wordlist"
)

// Recorder persists attack outcomes. *database.Store implements it.
type Recorder interface {
	InsertAttackResult(ctx context.Context, rec *database.AttackRecord) (int64, error)
}

// record stores result when r is set. Storage failures are logged and do
// not fail the audit.
func record(ctx context.Context, r Recorder, logger *slog.Logger, digest, source string, result model.AttackResult) {
	if r == nil {
		return
	}
	rec := &database.AttackRecord{TargetDigest: digest, Source: source, Result: result}
	if _, err := r.InsertAttackResult(ctx, rec); err != nil {
		logger.Warn("failed to store attack result", "digest", digest, "error", err)
	}
}

// NormalizeStep validates the digest and rewrites it in lowercase.
type NormalizeStep struct{}

// Name returns the step name.
func (NormalizeStep) Name() string {
	return "normalize"
}

// Do executes the step.
func (NormalizeStep) Do(_ context.Context, report *model.AuditReport) error {
	digest, err := hasher.NormalizeDigest(report.Digest)
	if err != nil {
		return err
	}
	report.Digest = digest
	return nil
}

// DictionaryStep replays a wordlist against the digest.
type DictionaryStep struct {
	Engine   *attack.Dictionary
	Resolver *wordlist.Resolver

	// Wordlist is the identifier passed to the resolver; empty selects its default.
	Wordlist string
	Limits   attack.Limits
	Recorder Recorder
	Logger   *slog.Logger
}

// Name returns the step name.
func (s *DictionaryStep) Name() string {
	return "dictionary"
}

// Skip skips digests that are already cracked.
func (s *DictionaryStep) Skip(report *model.AuditReport) bool {
	return report.Cracked
}

// Do executes the step.
func (s *DictionaryStep) Do(ctx context.Context, report *model.AuditReport) error {
	rc, err := s.Resolver.Open(s.Wordlist)
	if err != nil {
		return err
	}
	defer rc.Close()

	result, err := s.Engine.Attack(ctx, report.Digest, rc, s.Limits)
	if err != nil {
		return err
	}
	report.AddResult(result)

	source := s.Wordlist
	if source == "" {
		source = s.Resolver.DefaultName()
	}
	record(ctx, s.Recorder, loggerOrDefault(s.Logger), report.Digest, source, result)
	return nil
}

// BruteForceStep enumerates a bounded search space against the digest.
type BruteForceStep struct {
	Engine   *attack.BruteForce
	Params   attack.Params
	Recorder Recorder
	Logger   *slog.Logger
}

// Name returns the step name.
func (s *BruteForceStep) Name() string {
	return "brute_force"
}

// Skip skips digests that are already cracked.
func (s *BruteForceStep) Skip(report *model.AuditReport) bool {
	return report.Cracked
}

// Do executes the step.
func (s *BruteForceStep) Do(ctx context.Context, report *model.AuditReport) error {
	result, err := s.Engine.Attack(ctx, report.Digest, s.Params)
	if err != nil {
		return err
	}
	report.AddResult(result)
	record(ctx, s.Recorder, loggerOrDefault(s.Logger), report.Digest, s.Params.Describe(), result)
	return nil
}

// StrengthStep classifies a recovered password.
type StrengthStep struct {
	Classifier *classifier.Classifier
}

// Name returns the step name.
func (s *StrengthStep) Name() string {
	return "strength"
}

// Skip skips digests that were not cracked.
func (s *StrengthStep) Skip(report *model.AuditReport) bool {
	return !report.Cracked
}

// Do executes the step.
func (s *StrengthStep) Do(_ context.Context, report *model.AuditReport) error {
	label := s.Classifier.ClassifyPassword(report.Plaintext)
	report.Strength = &label
	return nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
