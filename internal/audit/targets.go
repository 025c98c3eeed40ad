package audit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/smartpass/internal/model"
)

// ErrInvalidTargets is returned when an audit input cannot be parsed.
var ErrInvalidTargets = model.NewError(model.ErrValidation, "invalid audit input")

// Target is one digest to audit.
type Target struct {
	// Label optionally names the digest, e.g. the account it belongs to.
	Label string

	// Digest is the hex digest as read from the input.
	Digest string
}

// ParseTargets reads one target per line. A line is either a digest or
// "label:digest". Blank lines and lines starting with '#' are ignored.
// Digests are not validated here; the pipeline reports malformed ones.
func ParseTargets(r io.Reader) ([]Target, error) {
	var targets []Target

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var t Target
		if label, digest, ok := strings.Cut(line, ":"); ok {
			t.Label = strings.TrimSpace(label)
			t.Digest = strings.TrimSpace(digest)
		} else {
			t.Digest = line
		}
		if t.Digest == "" {
			return nil, fmt.Errorf("%w: line %d has no digest", ErrInvalidTargets, lineNo)
		}
		targets = append(targets, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTargets, err)
	}
	return targets, nil
}
