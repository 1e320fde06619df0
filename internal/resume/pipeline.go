// Package resume runs the interview-mode intake pipeline: concurrent dual
// extraction of a resume file into structured fields and plain text, summary
// derivation, and tailored question generation.
package resume

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cognisys-ai/verbal-insights/internal/genai"
)

// Extraction is the joined result of one successful dual extraction.
type Extraction struct {
	Info *genai.ExtractedResumeInfo
	Text string
}

// Pipeline drives resume intake against the external service.
type Pipeline struct {
	client genai.Client
}

// NewPipeline creates a Pipeline.
func NewPipeline(client genai.Client) *Pipeline {
	return &Pipeline{client: client}
}

// Extract runs the structured-field and plain-text extractions concurrently
// and waits for both. If either leg fails the whole operation fails and
// nothing is returned; the caller commits both outputs together or not at
// all. No ordering is guaranteed between the two legs.
func (p *Pipeline) Extract(ctx context.Context, fileDataURI string) (*Extraction, error) {
	var (
		info *genai.ExtractedResumeInfo
		text string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = p.client.ExtractResumeInfo(gctx, fileDataURI)
		return err
	})
	g.Go(func() error {
		var err error
		text, err = p.client.ExtractTextFromFile(gctx, fileDataURI)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resume extraction failed: %w", err)
	}

	return &Extraction{Info: info, Text: text}, nil
}

// Summarize derives the short resume summary used for question generation:
// the explicit summary field when present, otherwise a synthesized list of
// job titles from the experience entries.
func Summarize(info *genai.ExtractedResumeInfo) string {
	if info == nil {
		return ""
	}
	if info.Summary != "" {
		return info.Summary
	}

	var titles []string
	for _, exp := range info.Experience {
		if exp.JobTitle != "" {
			titles = append(titles, exp.JobTitle)
		}
	}
	if len(titles) == 0 {
		return ""
	}
	return "Roles: " + strings.Join(titles, ", ")
}

// GenerateQuestions asks the service for tailored interview questions from
// the extraction. The returned list is capped at genai.MaxInterviewQuestions.
func (p *Pipeline) GenerateQuestions(ctx context.Context, ext *Extraction) ([]genai.InterviewQuestion, error) {
	if ext == nil || (ext.Info == nil && ext.Text == "") {
		return nil, fmt.Errorf("no resume information to generate questions from")
	}

	qs, err := p.client.GenerateQuestionsFromResume(ctx, Summarize(ext.Info), ext.Text)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("question generation returned no questions")
	}
	if len(qs) > genai.MaxInterviewQuestions {
		qs = qs[:genai.MaxInterviewQuestions]
	}
	return qs, nil
}
