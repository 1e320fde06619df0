package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/cognisys-ai/verbal-insights/internal/eventlog"
	"github.com/cognisys-ai/verbal-insights/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveMessage is a message from the browser's speech recognizer. The browser
// owns recognition; the server only folds results into the session transcript.
type liveMessage struct {
	Event   string `json:"event"`
	Text    string `json:"text,omitempty"`
	IsFinal bool   `json:"isFinal,omitempty"`
	Code    string `json:"code,omitempty"`
}

// liveUpdate echoes the folded transcript back after every result so the
// client renders exactly what the server will analyze.
type liveUpdate struct {
	Event      string `json:"event"`
	Transcript string `json:"transcript,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// recoverableRecognizerErrors are recognizer error codes that end a listening
// attempt without discarding what was already transcribed. The client restarts
// recognition on its own; the server keeps the transcript and stays quiet.
var recoverableRecognizerErrors = map[string]bool{
	"no-speech": true,
	"aborted":   true,
	"network":   true,
}

type liveConn struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	session  *session.Session
	eventLog *eventlog.Logger
	logger   *log.Logger
}

func (r *Router) handleLiveWS(w http.ResponseWriter, req *http.Request) {
	s, ok := r.sessions.Get(req.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if s.Source() != session.SourceLive {
		http.Error(w, "live transcription requires the live source", http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Printf("live_ws: upgrade failed: %v", err)
		return
	}

	lc := &liveConn{
		conn:     conn,
		session:  s,
		eventLog: r.eventLog,
		logger:   r.logger,
	}
	lc.run()
}

func (lc *liveConn) run() {
	defer lc.conn.Close()

	for {
		_, msg, err := lc.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				lc.logger.Printf("live_ws: connection closed for session %s", lc.session.ID)
			} else {
				lc.logger.Printf("live_ws: read error for session %s: %v", lc.session.ID, err)
			}
			return
		}

		var lm liveMessage
		if err := json.Unmarshal(msg, &lm); err != nil {
			lc.logger.Printf("live_ws: failed to parse message: %v", err)
			continue
		}

		switch lm.Event {
		case "start":
			lc.eventLog.Log(lc.session.ID, eventlog.EventLiveStarted, nil)

		case "result":
			current, err := lc.session.ApplyTranscript(lm.Text, lm.IsFinal)
			if err != nil {
				lc.writeUpdate(liveUpdate{Event: "error", Warning: err.Error()})
				continue
			}
			lc.writeUpdate(liveUpdate{Event: "transcript", Transcript: current})

		case "error":
			lc.handleRecognizerError(lm.Code)

		case "stop":
			lc.eventLog.Log(lc.session.ID, eventlog.EventLiveStopped, nil)
			return
		}
	}
}

func (lc *liveConn) handleRecognizerError(code string) {
	lc.eventLog.Log(lc.session.ID, eventlog.EventLiveError, map[string]any{"code": code})

	if recoverableRecognizerErrors[code] {
		lc.logger.Printf("live_ws: recoverable recognizer error %q for session %s", code, lc.session.ID)
		return
	}

	if code == "not-allowed" {
		lc.writeUpdate(liveUpdate{
			Event:   "warning",
			Warning: "microphone access denied; allow microphone use and try again",
		})
		return
	}

	lc.logger.Printf("live_ws: recognizer error %q for session %s", code, lc.session.ID)
	lc.writeUpdate(liveUpdate{Event: "warning", Warning: "speech recognition error: " + code})
}

func (lc *liveConn) writeUpdate(u liveUpdate) {
	lc.connMu.Lock()
	defer lc.connMu.Unlock()
	if err := lc.conn.WriteJSON(u); err != nil {
		lc.logger.Printf("live_ws: write error for session %s: %v", lc.session.ID, err)
	}
}
