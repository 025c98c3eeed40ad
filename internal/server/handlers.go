package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/smartpass/internal/attack"
	"github.com/nao1215/smartpass/internal/database"
	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/model"
)

// verifyRequest is the body of POST /verifier.
type verifyRequest struct {
	Password string `json:"password"`
}

// verifyResponse is the answer of POST /verifier.
type verifyResponse struct {
	Label model.Label `json:"label"`
}

// bruteForceRequest is the body of POST /attacker/brute_force. Absent
// overrides take the configured defaults.
type bruteForceRequest struct {
	HashedPassword string  `json:"hashed_password"`
	Charset        *string `json:"charset,omitempty"`
	MinLength      *int    `json:"min_length,omitempty"`
	MaxLength      *int    `json:"max_length,omitempty"`
	MaxAttempts    *uint64 `json:"max_attempts,omitempty"`
	TimeBudgetMS   *int64  `json:"time_budget_ms,omitempty"`

	// Resume continues after the newest unfinished run over the same space.
	Resume bool `json:"resume,omitempty"`
}

// dictionaryRequest is the body of POST /attacker/dictionary.
type dictionaryRequest struct {
	HashedPassword string `json:"hashed_password"`
	DictionaryFile string `json:"dictionary_file,omitempty"`
}

// errorResponse is the body of every error answer.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Password == "" {
		s.writeError(w, ErrNoPassword)
		return
	}

	s.writeJSON(w, http.StatusOK, verifyResponse{Label: s.classifier.ClassifyPassword(req.Password)})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	cred, err := s.generator.Generate()
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.store != nil {
		if _, err := s.store.InsertCredential(r.Context(), cred); err != nil {
			s.writeError(w, fmt.Errorf("failed to store credential: %w", err))
			return
		}
	}

	s.writeJSON(w, http.StatusOK, cred)
}

func (s *Server) handleBruteForce(w http.ResponseWriter, r *http.Request) {
	var req bruteForceRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.HashedPassword) == "" {
		s.writeError(w, ErrNoDigest)
		return
	}
	digest, err := hasher.NormalizeDigest(req.HashedPassword)
	if err != nil {
		s.writeError(w, err)
		return
	}

	params := s.bruteForceParams(req)
	if err := params.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	if req.Resume && s.store != nil {
		pos, err := s.store.LatestResumePosition(ctx, digest, params.Describe())
		if err != nil {
			s.logger.Warn("failed to look up resume position", "error", err)
		} else {
			params.StartPosition = pos
		}
	}

	release, err := s.acquire(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer release()

	result, err := s.bruteForce.Attack(ctx, digest, params)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.record(ctx, digest, params.Describe(), result)
	s.writeJSON(w, http.StatusOK, result)
}

// bruteForceParams merges the overrides of req into the configured
// defaults and clamps them to the configured ceilings.
func (s *Server) bruteForceParams(req bruteForceRequest) attack.Params {
	p := attack.Params{
		Charset:     s.cfg.Charset,
		MinLen:      s.cfg.MinLength,
		MaxLen:      s.cfg.MaxLength,
		MaxAttempts: s.cfg.MaxAttempts,
		TimeBudget:  s.cfg.TimeBudget,
	}
	if req.Charset != nil {
		p.Charset = *req.Charset
	}
	if req.MinLength != nil {
		p.MinLen = *req.MinLength
	}
	if req.MaxLength != nil {
		p.MaxLen = *req.MaxLength
	}
	if req.MaxAttempts != nil {
		p.MaxAttempts = *req.MaxAttempts
	}
	if req.TimeBudgetMS != nil {
		p.TimeBudget = time.Duration(*req.TimeBudgetMS) * time.Millisecond
	}

	p.MaxLen = min(p.MaxLen, s.cfg.MaxLengthLimit)
	p.MaxAttempts = min(p.MaxAttempts, s.cfg.MaxAttemptsLimit)
	p.TimeBudget = min(p.TimeBudget, s.cfg.TimeBudgetLimit)
	return p
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	var req dictionaryRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.HashedPassword) == "" {
		s.writeError(w, ErrNoDigest)
		return
	}
	digest, err := hasher.NormalizeDigest(req.HashedPassword)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := req.DictionaryFile
	if name == "" {
		name = s.resolver.DefaultName()
	}
	source, err := s.resolver.Open(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer source.Close()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	release, err := s.acquire(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer release()

	limits := attack.Limits{
		MaxAttempts: s.cfg.DictionaryMaxAttempts,
		TimeBudget:  s.cfg.DictionaryTimeBudget,
	}
	result, err := s.dictionary.Attack(ctx, digest, source, limits)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.record(ctx, digest, name, result)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}

// record stores an attack result. Storage failures are logged only: the
// client still gets its result.
func (s *Server) record(ctx context.Context, digest, source string, result model.AttackResult) {
	if s.store == nil {
		return
	}
	// the attack may have used up ctx; storing must not depend on it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	rec := &database.AttackRecord{TargetDigest: digest, Source: source, Result: result}
	if _, err := s.store.InsertAttackResult(ctx, rec); err != nil {
		s.logger.Warn("failed to store attack result", "engine", result.Engine, "error", err)
	}
}

// decode reads a JSON body of at most maxBodySize bytes into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

// writeJSON writes v with status code.
func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// writeError writes err with the status statusFor picks. Internal errors
// are logged and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = http.StatusText(code)
	}
	s.writeJSON(w, code, errorResponse{Error: msg})
}
