package audit

import (
	"log/slog"

	"github.com/nao1215/smartpass/internal/attack"
	"github.com/nao1215/smartpass/internal/classifier"
	"github.com/nao1215/smartpass/internal/wordlist"
)

// Setup lists the collaborators of the standard audit pipeline.
// Nil collaborators drop the matching step.
type Setup struct {
	Dictionary *attack.Dictionary
	Resolver   *wordlist.Resolver
	Wordlist   string
	Limits     attack.Limits

	BruteForce *attack.BruteForce
	Params     attack.Params

	Classifier *classifier.Classifier
	Recorder   Recorder
	Logger     *slog.Logger
}

// StandardPipeline returns normalize, dictionary, brute_force and strength
// steps, in that order, for the collaborators s provides.
func StandardPipeline(s Setup) *Pipeline {
	p := New(WithLogger(s.Logger))
	p.AddStep(NormalizeStep{})

	if s.Dictionary != nil && s.Resolver != nil {
		p.AddStep(&DictionaryStep{
			Engine:   s.Dictionary,
			Resolver: s.Resolver,
			Wordlist: s.Wordlist,
			Limits:   s.Limits,
			Recorder: s.Recorder,
			Logger:   s.Logger,
		})
	}
	if s.BruteForce != nil {
		p.AddStep(&BruteForceStep{
			Engine:   s.BruteForce,
			Params:   s.Params,
			Recorder: s.Recorder,
			Logger:   s.Logger,
		})
	}
	if s.Classifier != nil {
		p.AddStep(&StrengthStep{Classifier: s.Classifier})
	}
	return p
}
