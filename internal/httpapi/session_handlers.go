package httpapi

import (
	"errors"
	"net/http"

	"github.com/cognisys-ai/verbal-insights/internal/capture"
	"github.com/cognisys-ai/verbal-insights/internal/eventlog"
	"github.com/cognisys-ai/verbal-insights/internal/genai"
	"github.com/cognisys-ai/verbal-insights/internal/session"
)

func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}

	mode := genai.ModePresentation
	if body.Mode != "" {
		m, ok := genai.ParseMode(body.Mode)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown mode")
			return
		}
		mode = m
	}

	s, ok := r.sessions.Create(mode)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	r.eventLog.Log(s.ID, eventlog.EventSessionCreated, map[string]any{"mode": string(mode)})
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

func (r *Router) handleGetSession(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleDeleteSession(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	r.sessions.Delete(id)
	r.eventLog.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleSetMode(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	var body struct {
		Mode string `json:"mode"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}
	mode, valid := genai.ParseMode(body.Mode)
	if !valid {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	s.SetMode(mode)
	r.eventLog.Log(s.ID, eventlog.EventModeChanged, map[string]any{"mode": string(mode)})
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleSetSource(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	var body struct {
		Source string `json:"source"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}
	src, valid := session.ParseSource(body.Source)
	if !valid {
		writeError(w, http.StatusBadRequest, "unknown source")
		return
	}

	s.SetSource(src)
	r.eventLog.Log(s.ID, eventlog.EventSourceChanged, map[string]any{"source": string(src)})
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// handleSetSample covers the live tab's manual edits (text) and the upload
// tab (audio data URI).
func (r *Router) handleSetSample(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	var body struct {
		Text         string `json:"text"`
		AudioDataURI string `json:"audioDataUri"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}

	switch {
	case body.Text != "" && body.AudioDataURI != "":
		writeError(w, http.StatusBadRequest, "provide either text or audioDataUri, not both")
		return
	case body.AudioDataURI != "":
		if !capture.ValidDataURI(body.AudioDataURI) || !genai.IsAudioDataURI(body.AudioDataURI) {
			writeError(w, http.StatusBadRequest, "audioDataUri must be a base64 audio data URI")
			return
		}
		if s.Source() != session.SourceUpload {
			s.SetSource(session.SourceUpload)
		}
		s.SetAudioSample(body.AudioDataURI)
	case body.Text != "":
		if s.Source() != session.SourceLive {
			writeError(w, http.StatusConflict, "text samples require the live source")
			return
		}
		s.SetTextSample(body.Text)
	default:
		writeError(w, http.StatusBadRequest, "empty sample")
		return
	}

	r.eventLog.Log(s.ID, eventlog.EventSampleSet, map[string]any{"audio": body.AudioDataURI != ""})
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleClearSample(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}
	s.ClearSample()
	r.eventLog.Log(s.ID, eventlog.EventSampleCleared, nil)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleRecordingStart(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	var body struct {
		MimeType string `json:"mimeType"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}

	if err := s.StartRecording(body.MimeType); err != nil {
		writeRecordingError(w, err)
		return
	}
	r.eventLog.Log(s.ID, eventlog.EventRecordingStarted, map[string]any{"mimeType": body.MimeType})
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleRecordingChunk(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	var body struct {
		Data string `json:"data"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}

	if err := s.AppendRecordingChunk(body.Data); err != nil {
		writeRecordingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleRecordingStop(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	uri, err := s.StopRecording()
	if err != nil {
		writeRecordingError(w, err)
		return
	}
	r.eventLog.Log(s.ID, eventlog.EventRecordingStopped, map[string]any{"bytes": len(uri)})
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func writeRecordingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrWrongSource):
		writeError(w, http.StatusConflict, "recording requires the record source")
	case errors.Is(err, capture.ErrAlreadyRecording):
		writeError(w, http.StatusConflict, "recording already in progress")
	case errors.Is(err, capture.ErrNotRecording):
		writeError(w, http.StatusConflict, "no recording in progress")
	case errors.Is(err, capture.ErrEmptyRecording):
		writeError(w, http.StatusBadRequest, "recording contains no audio")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (r *Router) handleSetRehearsal(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}
	if s.Mode() != genai.ModeRehearsal {
		writeError(w, http.StatusConflict, "session is not in Rehearsal Mode")
		return
	}

	var body struct {
		Question      string `json:"question"`
		PerfectAnswer string `json:"perfectAnswer"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}

	s.SetRehearsal(body.Question, body.PerfectAnswer)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleSelectQuestion(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}

	var body struct {
		Index int `json:"index"`
	}
	if !r.decodeJSON(w, req, &body) {
		return
	}

	if err := s.SelectQuestion(body.Index); err != nil {
		switch {
		case errors.Is(err, session.ErrNoQuestions):
			writeError(w, http.StatusConflict, "no questions generated yet")
		case errors.Is(err, session.ErrBadQuestionIndex):
			writeError(w, http.StatusBadRequest, "question index out of range")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	r.eventLog.Log(s.ID, eventlog.EventQuestionSelected, map[string]any{"index": body.Index})
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (r *Router) handleGetEvents(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessionFromPath(w, req)
	if !ok {
		return
	}
	events := r.eventLog.Events(s.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}
