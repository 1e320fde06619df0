package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cognisys-ai/verbal-insights/internal/analysis"
	"github.com/cognisys-ai/verbal-insights/internal/capture"
	"github.com/cognisys-ai/verbal-insights/internal/eventlog"
	"github.com/cognisys-ai/verbal-insights/internal/genai"
	"github.com/cognisys-ai/verbal-insights/internal/resume"
	"github.com/cognisys-ai/verbal-insights/internal/session"
)

// handleResumeUpload runs the dual extraction (structured fields and full
// text) and commits both to the session atomically.
func (r *Router) handleResumeUpload(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}
	if s.Mode() != genai.ModeInterview {
		writeError(w, http.StatusConflict, "resume upload requires Interview Mode")
		return
	}

	var body struct {
		FileDataURI string `json:"fileDataUri"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}
	if !capture.ValidDataURI(body.FileDataURI) {
		writeError(w, http.StatusBadRequest, "fileDataUri must be a base64 data URI")
		return
	}

	if !s.TryAcquire() {
		writeError(w, http.StatusConflict, "another operation is in progress")
		return
	}
	defer s.Release()

	ctx, cancel := context.WithTimeout(req.Context(), r.cfg.AnalysisTimeout)
	defer cancel()

	ext, err := r.intake.Extract(ctx, body.FileDataURI)
	if err != nil {
		r.logger.Printf("resume: extraction failed for session %s: %v", s.ID, err)
		captureError(req, err, "resume: extraction failed")
		r.eventLog.Log(s.ID, eventlog.EventExtractionFailed, map[string]any{"error": err.Error()})
		writeError(w, http.StatusBadGateway, "failed to extract resume details")
		return
	}

	s.CommitResume(ext.Info, ext.Text)
	r.eventLog.Log(s.ID, eventlog.EventResumeExtracted, map[string]any{"textLength": len(ext.Text)})
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleGenerateQuestions(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	info, text := s.Resume()
	if info == nil {
		writeError(w, http.StatusConflict, "upload a resume before generating questions")
		return
	}

	if !s.TryAcquire() {
		writeError(w, http.StatusConflict, "another operation is in progress")
		return
	}
	defer s.Release()

	ctx, cancel := context.WithTimeout(req.Context(), r.cfg.AnalysisTimeout)
	defer cancel()

	qs, err := r.intake.GenerateQuestions(ctx, &resume.Extraction{Info: info, Text: text})
	if err != nil {
		r.logger.Printf("resume: question generation failed for session %s: %v", s.ID, err)
		captureError(req, err, "resume: question generation failed")
		r.eventLog.Log(s.ID, eventlog.EventGenerationFailed, map[string]any{"error": err.Error()})
		writeError(w, http.StatusBadGateway, "failed to generate interview questions")
		return
	}

	if err := s.SetQuestions(qs); err != nil {
		if errors.Is(err, session.ErrNoResume) {
			writeError(w, http.StatusConflict, "resume was cleared while generating questions")
			return
		}
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	r.eventLog.Log(s.ID, eventlog.EventQuestionsGenerated, map[string]any{"count": len(qs)})
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	if !s.TryAcquire() {
		writeError(w, http.StatusConflict, "analysis already in progress")
		return
	}
	defer s.Release()

	r.eventLog.Log(s.ID, eventlog.EventAnalysisStarted, map[string]any{"mode": string(s.Mode())})

	ctx, cancel := context.WithTimeout(req.Context(), r.cfg.AnalysisTimeout)
	defer cancel()

	result, err := r.invoker.Analyze(ctx, s)
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			r.eventLog.Log(s.ID, eventlog.EventAnalysisFailed, map[string]any{"missing": verr.Missing})
			writeError(w, http.StatusUnprocessableEntity, missingFieldsMessage(verr))
			return
		}
		r.logger.Printf("analysis: failed for session %s: %v", s.ID, err)
		captureError(req, err, "analysis: evaluator call failed")
		r.eventLog.Log(s.ID, eventlog.EventAnalysisFailed, map[string]any{"error": err.Error()})
		writeError(w, http.StatusBadGateway, "speech analysis failed")
		return
	}

	s.SetResult(result)
	r.eventLog.Log(s.ID, eventlog.EventAnalysisCompleted, map[string]any{"totalScore": result.TotalScore})
	writeJSON(w, http.StatusOK, result)
}

func (r *Router) handleGetResult(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}
	result := s.Result()
	if result == nil {
		writeError(w, http.StatusNotFound, "no analysis result yet")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSummarize condenses the current speech sample. Audio samples are not
// summarizable directly; the transcript from the result is used when present.
func (r *Router) handleSummarize(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	text := s.Sample()
	if genai.IsAudioDataURI(text) {
		result := s.Result()
		if result == nil || len(result.HighlightedTranscription) == 0 {
			writeError(w, http.StatusConflict, "analyze the audio sample before summarizing")
			return
		}
		text = analysis.JoinSegments(result.HighlightedTranscription)
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "no speech sample to summarize")
		return
	}

	if !s.TryAcquire() {
		writeError(w, http.StatusConflict, "another operation is in progress")
		return
	}
	defer s.Release()

	ctx, cancel := context.WithTimeout(req.Context(), r.cfg.AnalysisTimeout)
	defer cancel()

	summary, err := r.ai.SummarizeSpeech(ctx, text)
	if err != nil {
		r.logger.Printf("summary: failed for session %s: %v", s.ID, err)
		captureError(req, err, "summary: evaluator call failed")
		writeError(w, http.StatusBadGateway, "failed to summarize speech")
		return
	}

	s.SetSummary(summary)
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	result := s.Result()
	if result == nil {
		writeError(w, http.StatusConflict, "run an analysis before exporting a report")
		return
	}

	data, err := r.exporter.Export(result)
	if err != nil {
		r.logger.Printf("report: export failed for session %s: %v", s.ID, err)
		captureError(req, err, "report: export failed")
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	r.eventLog.Log(s.ID, eventlog.EventReportExported, map[string]any{"bytes": len(data)})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="speech-insights-report.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
