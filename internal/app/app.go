package app

import (
	"errors"
	"log"
	"net/http"

	"github.com/cognisys-ai/verbal-insights/internal/eventlog"
	"github.com/cognisys-ai/verbal-insights/internal/genai"
	"github.com/cognisys-ai/verbal-insights/internal/httpapi"
	"github.com/cognisys-ai/verbal-insights/internal/session"
	"github.com/cognisys-ai/verbal-insights/internal/taxonomy"
)

type App struct {
	cfg      Config
	logger   *log.Logger
	sessions *session.Registry
	eventLog *eventlog.Logger
	tax      *taxonomy.Taxonomy
	ai       genai.Client
}

func New(cfg Config, logger *log.Logger) (*App, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return nil, err
	}

	ai := genai.NewGeminiClient(genai.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})

	return &App{
		cfg:      cfg,
		logger:   logger,
		sessions: session.NewRegistry(cfg.SessionIdleTTL),
		eventLog: eventlog.New(0),
		tax:      tax,
		ai:       ai,
	}, nil
}

func (a *App) Router() http.Handler {
	routerCfg := httpapi.RouterConfig{
		MaxUploadBytes:  a.cfg.MaxUploadBytes,
		AnalysisTimeout: a.cfg.AnalysisTimeout,
	}
	return httpapi.NewRouter(routerCfg, a.logger, a.sessions, a.eventLog, a.ai, a.tax)
}

// Sessions exposes the registry for drain handling at shutdown.
func (a *App) Sessions() *session.Registry {
	return a.sessions
}

func (a *App) Close() error {
	a.sessions.Close()
	return nil
}
