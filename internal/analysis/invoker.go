// Package analysis assembles evaluator requests from session state, runs the
// pre-flight validation gate, and normalizes evaluator output against the
// taxonomy.
package analysis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cognisys-ai/verbal-insights/internal/genai"
	"github.com/cognisys-ai/verbal-insights/internal/session"
	"github.com/cognisys-ai/verbal-insights/internal/taxonomy"
)

// ValidationError reports required inputs that are still missing. It is
// raised before any service call is issued.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Invoker builds and issues analysis requests. One blocking request per
// call; no retries, no streaming, no partial results.
type Invoker struct {
	client genai.Client
	tax    *taxonomy.Taxonomy
	logger *log.Logger
}

// NewInvoker creates an Invoker.
func NewInvoker(client genai.Client, tax *taxonomy.Taxonomy, logger *log.Logger) *Invoker {
	return &Invoker{client: client, tax: tax, logger: logger}
}

// BuildInput assembles the evaluator request from session state. Interview
// sessions are remapped to Rehearsal semantics (the evaluator only knows
// plain analysis vs. comparison against an ideal answer) while the session
// keeps reporting Interview to the user. The remap happens on the request
// being built, never on session state.
func BuildInput(s *session.Session) (genai.AnalyzeSpeechInput, error) {
	if missing := s.MissingForAnalysis(); len(missing) > 0 {
		return genai.AnalyzeSpeechInput{}, &ValidationError{Missing: missing}
	}

	input := genai.AnalyzeSpeechInput{
		SpeechSample: s.Sample(),
		Mode:         s.Mode(),
	}

	switch s.Mode() {
	case genai.ModeRehearsal:
		input.Question, input.PerfectAnswer = s.Rehearsal()
	case genai.ModeInterview:
		q, ok := s.SelectedQuestion()
		if !ok {
			return genai.AnalyzeSpeechInput{}, &ValidationError{Missing: []string{"selected question"}}
		}
		input.Question = q.Question
		input.PerfectAnswer = q.Answer
		input.Mode = genai.ModeRehearsal
	}

	return input, nil
}

// Analyze validates the session, issues the evaluator call and returns the
// normalized result. The session itself is left untouched; storing the
// result is the caller's decision.
func (inv *Invoker) Analyze(ctx context.Context, s *session.Session) (*genai.AnalyzeSpeechOutput, error) {
	input, err := BuildInput(s)
	if err != nil {
		return nil, err
	}

	out, err := inv.client.AnalyzeSpeech(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	inv.normalize(out, input)
	return out, nil
}

// normalize clamps scores into their documented ranges and repairs the
// result against the taxonomy: criterion categories are corrected, and
// segments the evaluator left untyped whose text is in the filler lexicon
// are retagged as filler. Violations are diagnostic-logged only; the result
// is still returned.
func (inv *Invoker) normalize(out *genai.AnalyzeSpeechOutput, input genai.AnalyzeSpeechInput) {
	out.TotalScore = clamp(out.TotalScore, 0, 100)
	out.Metadata.PaceScore = clamp(out.Metadata.PaceScore, 0, 100)
	out.Metadata.ClarityScore = clamp(out.Metadata.ClarityScore, 0, 100)
	out.Metadata.PausePercentage = clamp(out.Metadata.PausePercentage, 0, 100)

	for i := range out.EvaluationCriteria {
		c := &out.EvaluationCriteria[i]
		c.Score = clamp(c.Score, 0, 10)
		if cat, ok := inv.tax.KnownCriterion(c.Criteria); ok && c.Category != cat {
			c.Category = cat
		}
	}

	for i := range out.HighlightedTranscription {
		seg := &out.HighlightedTranscription[i]
		if seg.Type == genai.SegmentDefault && inv.tax.IsFillerWord(seg.Text) {
			seg.Type = genai.SegmentFiller
		}
	}

	if n := len(out.EvaluationCriteria); n != inv.tax.CriterionCount() && inv.logger != nil {
		inv.logger.Printf("analysis: evaluator returned %d criteria, expected %d", n, inv.tax.CriterionCount())
	}

	if len(out.HighlightedTranscription) > 0 && !genai.IsAudioDataURI(input.SpeechSample) {
		if !SegmentsMatchTranscript(out.HighlightedTranscription, input.SpeechSample) && inv.logger != nil {
			inv.logger.Printf("analysis: highlighted transcription does not reconstruct the transcript")
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
