package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/cognisys-ai/verbal-insights/internal/analysis"
	"github.com/cognisys-ai/verbal-insights/internal/eventlog"
	"github.com/cognisys-ai/verbal-insights/internal/genai"
	"github.com/cognisys-ai/verbal-insights/internal/report"
	"github.com/cognisys-ai/verbal-insights/internal/resume"
	"github.com/cognisys-ai/verbal-insights/internal/session"
	"github.com/cognisys-ai/verbal-insights/internal/taxonomy"
)

// RouterConfig carries the handler-level settings.
type RouterConfig struct {
	// MaxUploadBytes bounds request bodies that carry file payloads.
	MaxUploadBytes int64

	// AnalysisTimeout bounds a single evaluator call.
	AnalysisTimeout time.Duration
}

// Router wires the HTTP surface to the session registry and the AI-backed
// services.
type Router struct {
	cfg      RouterConfig
	logger   *log.Logger
	sessions *session.Registry
	eventLog *eventlog.Logger
	invoker  *analysis.Invoker
	intake   *resume.Pipeline
	exporter *report.Exporter
	ai       genai.Client
	mux      *http.ServeMux
}

// NewRouter builds the full route table.
func NewRouter(cfg RouterConfig, logger *log.Logger, sessions *session.Registry, eventLog *eventlog.Logger, ai genai.Client, tax *taxonomy.Taxonomy) http.Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.AnalysisTimeout <= 0 {
		cfg.AnalysisTimeout = 3 * time.Minute
	}

	r := &Router{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		eventLog: eventLog,
		invoker:  analysis.NewInvoker(ai, tax, logger),
		intake:   resume.NewPipeline(ai),
		exporter: report.NewExporter(tax, logger),
		ai:       ai,
		mux:      http.NewServeMux(),
	}

	r.routes()
	return withSentryRecovery(withCORS(r.mux))
}

func (r *Router) routes() {
	// Health check
	r.mux.HandleFunc("GET /healthz", r.handleHealthz)

	// Session lifecycle
	r.mux.HandleFunc("POST /api/sessions", r.handleCreateSession)
	r.mux.HandleFunc("GET /api/sessions/{id}", r.handleGetSession)
	r.mux.HandleFunc("DELETE /api/sessions/{id}", r.handleDeleteSession)
	r.mux.HandleFunc("PATCH /api/sessions/{id}/mode", r.handleSetMode)

	// Speech sample acquisition
	r.mux.HandleFunc("PUT /api/sessions/{id}/source", r.handleSetSource)
	r.mux.HandleFunc("PUT /api/sessions/{id}/sample", r.handleSetSample)
	r.mux.HandleFunc("DELETE /api/sessions/{id}/sample", r.handleClearSample)
	r.mux.HandleFunc("POST /api/sessions/{id}/recording/start", r.handleRecordingStart)
	r.mux.HandleFunc("POST /api/sessions/{id}/recording/chunk", r.handleRecordingChunk)
	r.mux.HandleFunc("POST /api/sessions/{id}/recording/stop", r.handleRecordingStop)
	r.mux.HandleFunc("GET /api/sessions/{id}/live", r.handleLiveWS)

	// Mode-specific auxiliary state
	r.mux.HandleFunc("PUT /api/sessions/{id}/rehearsal", r.handleSetRehearsal)
	r.mux.HandleFunc("POST /api/sessions/{id}/resume", r.handleResumeUpload)
	r.mux.HandleFunc("POST /api/sessions/{id}/questions", r.handleGenerateQuestions)
	r.mux.HandleFunc("PUT /api/sessions/{id}/questions/selected", r.handleSelectQuestion)

	// Analysis and outputs
	r.mux.HandleFunc("POST /api/sessions/{id}/analyze", r.handleAnalyze)
	r.mux.HandleFunc("GET /api/sessions/{id}/result", r.handleGetResult)
	r.mux.HandleFunc("POST /api/sessions/{id}/summary", r.handleSummarize)
	r.mux.HandleFunc("GET /api/sessions/{id}/report", r.handleReport)

	// Diagnostics
	r.mux.HandleFunc("GET /api/sessions/{id}/events", r.handleGetEvents)
}

func (r *Router) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// sessionFromPath resolves the {id} path value. Writes the 404 itself.
func (r *Router) sessionFromPath(w http.ResponseWriter, req *http.Request) (*session.Session, bool) {
	id := req.PathValue("id")
	s, ok := r.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// decodeJSON decodes a bounded JSON body. Writes the 400 itself.
func (r *Router) decodeJSON(w http.ResponseWriter, req *http.Request, v any) bool {
	req.Body = http.MaxBytesReader(w, req.Body, r.cfg.MaxUploadBytes)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func withSentryRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(req)
				hub.RecoverWithContext(req.Context(), err)
				hub.Flush(2 * time.Second)
				http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, req)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// captureError sends an error to Sentry with request context.
func captureError(req *http.Request, err error, msg string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(req)
		scope.SetExtra("message", msg)
		sentry.CaptureException(err)
	})
}

// missingFieldsMessage names every missing required input in the user-facing
// validation message.
func missingFieldsMessage(verr *analysis.ValidationError) string {
	return fmt.Sprintf("cannot analyze: missing %s", joinAnd(verr.Missing))
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		out := ""
		for i, it := range items[:len(items)-1] {
			if i > 0 {
				out += ", "
			}
			out += it
		}
		return out + ", and " + items[len(items)-1]
	}
}
