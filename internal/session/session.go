// Package session holds the per-user coaching session: the analysis mode,
// the current speech sample and its acquisition source, the mode-specific
// auxiliary state, and the latest analysis result. All state lives in memory
// for the lifetime of the session and is discarded on mode change or expiry.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/cognisys-ai/verbal-insights/internal/capture"
	"github.com/cognisys-ai/verbal-insights/internal/genai"
)

// Source identifies which acquisition path owns the current sample.
type Source string

const (
	SourceLive   Source = "live"
	SourceRecord Source = "record"
	SourceUpload Source = "upload"
)

// ParseSource validates a source string.
func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourceLive, SourceRecord, SourceUpload:
		return Source(s), true
	}
	return "", false
}

var (
	// ErrBusy is returned when an AI-backed operation is requested while
	// another one is still in flight for the same session.
	ErrBusy = errors.New("another operation is in progress")

	// ErrNoResume is returned when question generation is requested before a
	// resume has been extracted.
	ErrNoResume = errors.New("no resume information available")

	// ErrNoQuestions is returned when a question is selected before any have
	// been generated.
	ErrNoQuestions = errors.New("no questions generated")

	// ErrBadQuestionIndex is returned for an out-of-range selection.
	ErrBadQuestionIndex = errors.New("question index out of range")

	// ErrWrongSource is returned when a capture operation arrives for a
	// source that is not active, e.g. recording chunks while the live tab
	// owns the sample.
	ErrWrongSource = errors.New("operation does not match the active source")
)

// Session is one user's coaching session. All methods are safe for
// concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	touchedAt time.Time

	mode   genai.Mode
	source Source
	sample string // empty means absent; text or audio data URI

	transcript capture.Transcript
	recorder   capture.Recorder

	// Rehearsal aux.
	question      string
	perfectAnswer string

	// Interview aux.
	resumeInfo *genai.ExtractedResumeInfo
	resumeText string
	questions  []genai.InterviewQuestion
	selected   int // index into questions, -1 when none

	result  *genai.AnalyzeSpeechOutput
	summary string

	busy bool
}

func newSession(id string, mode genai.Mode) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		CreatedAt: now,
		touchedAt: now,
		mode:      mode,
		source:    SourceLive,
		selected:  -1,
	}
}

func (s *Session) touch() {
	s.touchedAt = time.Now().UTC()
}

// Mode returns the user-visible analysis mode.
func (s *Session) Mode() genai.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the analysis mode. The current sample and result are
// always discarded; leaving Interview drops all resume and question state;
// leaving Rehearsal drops the question and perfect-answer text.
func (s *Session) SetMode(mode genai.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if mode == s.mode {
		return
	}

	prev := s.mode
	s.mode = mode
	s.clearSampleLocked()
	s.result = nil
	s.summary = ""

	if prev == genai.ModeInterview {
		s.resumeInfo = nil
		s.resumeText = ""
		s.questions = nil
		s.selected = -1
	}
	if prev == genai.ModeRehearsal {
		s.question = ""
		s.perfectAnswer = ""
	}
}

// Source returns the active acquisition source.
func (s *Session) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// SetSource switches the acquisition source. All capture state is reset
// stop-before-start: the recorder is stopped and its buffer dropped, the
// transcript fold is cleared, and the current sample is discarded.
func (s *Session) SetSource(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.source = src
	s.clearSampleLocked()
}

func (s *Session) clearSampleLocked() {
	s.sample = ""
	s.transcript.Reset()
	s.recorder.Reset()
}

// Sample returns the current speech sample, empty when absent.
func (s *Session) Sample() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample
}

// SetTextSample sets a plain-text sample (live tab, including manual edits).
func (s *Session) SetTextSample(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.sample = text
}

// SetAudioSample sets an audio data URI sample (upload tab).
func (s *Session) SetAudioSample(dataURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.recorder.Reset()
	s.sample = dataURI
}

// ClearSample discards the sample and all capture state.
func (s *Session) ClearSample() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.clearSampleLocked()
}

// ApplyTranscript folds one live recognition delta into the transcript and
// mirrors the folded text into the sample. Only valid while the live source
// is active.
func (s *Session) ApplyTranscript(text string, isFinal bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.source != SourceLive {
		return "", ErrWrongSource
	}
	s.transcript.Apply(text, isFinal)
	s.sample = s.transcript.Current()
	return s.sample, nil
}

// ResetTranscript clears the live transcript and the mirrored sample.
func (s *Session) ResetTranscript() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.source != SourceLive {
		return ErrWrongSource
	}
	s.transcript.Reset()
	s.sample = ""
	return nil
}

// StartRecording begins buffering a new recording on the record source.
func (s *Session) StartRecording(mimeType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.source != SourceRecord {
		return ErrWrongSource
	}
	s.sample = ""
	return s.recorder.Start(mimeType)
}

// AppendRecordingChunk buffers one base64 audio chunk.
func (s *Session) AppendRecordingChunk(data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.source != SourceRecord {
		return ErrWrongSource
	}
	return s.recorder.AppendChunk(data)
}

// StopRecording seals the buffered chunks into an audio data URI and sets it
// as the sample.
func (s *Session) StopRecording() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.source != SourceRecord {
		return "", ErrWrongSource
	}
	uri, err := s.recorder.Stop()
	if err != nil {
		return "", err
	}
	s.sample = uri
	return uri, nil
}

// Recording reports whether a recording is in progress.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.Recording()
}

// SetRehearsal sets the Rehearsal-mode question and perfect answer.
func (s *Session) SetRehearsal(question, perfectAnswer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.question = question
	s.perfectAnswer = perfectAnswer
}

// Rehearsal returns the Rehearsal-mode question and perfect answer.
func (s *Session) Rehearsal() (question, perfectAnswer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question, s.perfectAnswer
}

// CommitResume atomically stores both legs of a successful dual extraction
// and invalidates any previously generated questions and selection.
func (s *Session) CommitResume(info *genai.ExtractedResumeInfo, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.resumeInfo = info
	s.resumeText = text
	s.questions = nil
	s.selected = -1
}

// Resume returns the extracted resume info and text, nil/empty when absent.
func (s *Session) Resume() (*genai.ExtractedResumeInfo, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumeInfo, s.resumeText
}

// SetQuestions replaces the question list wholesale and clears any prior
// selection. Requires a prior successful resume extraction.
func (s *Session) SetQuestions(qs []genai.InterviewQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.resumeInfo == nil && s.resumeText == "" {
		return ErrNoResume
	}
	if len(qs) > genai.MaxInterviewQuestions {
		qs = qs[:genai.MaxInterviewQuestions]
	}
	s.questions = qs
	s.selected = -1
	return nil
}

// Questions returns the generated question list.
func (s *Session) Questions() []genai.InterviewQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// SelectQuestion marks the question at index i as the one being answered.
func (s *Session) SelectQuestion(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if len(s.questions) == 0 {
		return ErrNoQuestions
	}
	if i < 0 || i >= len(s.questions) {
		return ErrBadQuestionIndex
	}
	s.selected = i
	return nil
}

// SelectedQuestion returns the selected question, if any.
func (s *Session) SelectedQuestion() (genai.InterviewQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.questions) {
		return genai.InterviewQuestion{}, false
	}
	return s.questions[s.selected], true
}

// MissingForAnalysis is the validation gate: it returns the human-readable
// names of every required input still missing for the current mode. An empty
// result means analysis may proceed.
func (s *Session) MissingForAnalysis() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []string
	if s.sample == "" {
		missing = append(missing, "speech sample")
	}
	switch s.mode {
	case genai.ModeRehearsal:
		if s.question == "" {
			missing = append(missing, "question")
		}
		if s.perfectAnswer == "" {
			missing = append(missing, "perfect answer")
		}
	case genai.ModeInterview:
		if s.selected < 0 || s.selected >= len(s.questions) {
			missing = append(missing, "selected question")
		}
	}
	return missing
}

// SetResult stores an analysis result.
func (s *Session) SetResult(res *genai.AnalyzeSpeechOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.result = res
}

// Result returns the latest analysis result, nil when none.
func (s *Session) Result() *genai.AnalyzeSpeechOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetSummary stores a speech summary.
func (s *Session) SetSummary(summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.summary = summary
}

// Summary returns the latest speech summary.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// TryAcquire claims the session's single in-flight slot for an AI-backed
// operation. It mirrors the UI discipline of disabling the triggering
// control: a second submission is rejected, the first is never cancelled.
func (s *Session) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// Release frees the in-flight slot. Must be called exactly once per
// successful TryAcquire.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// idleSince reports the last time the session was used.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// Snapshot is the JSON view of a session returned by the API.
type Snapshot struct {
	ID            string                     `json:"id"`
	Mode          genai.Mode                 `json:"mode"`
	Source        Source                     `json:"source"`
	HasSample     bool                       `json:"hasSample"`
	SampleIsAudio bool                       `json:"sampleIsAudio"`
	Recording     bool                       `json:"recording"`
	Question      string                     `json:"question,omitempty"`
	PerfectAnswer string                     `json:"perfectAnswer,omitempty"`
	ResumeInfo    *genai.ExtractedResumeInfo `json:"resumeInfo,omitempty"`
	ResumeText    string                     `json:"resumeText,omitempty"`
	Questions     []genai.InterviewQuestion  `json:"questions,omitempty"`
	SelectedIndex *int                       `json:"selectedIndex,omitempty"`
	MissingFields []string                   `json:"missingFields,omitempty"`
	HasResult     bool                       `json:"hasResult"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

// Snapshot returns the API view of the session. Auxiliary state of other
// modes is never exposed.
func (s *Session) Snapshot() Snapshot {
	missing := s.MissingForAnalysis()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.ID,
		Mode:          s.mode,
		Source:        s.source,
		HasSample:     s.sample != "",
		SampleIsAudio: genai.IsAudioDataURI(s.sample),
		Recording:     s.recorder.Recording(),
		MissingFields: missing,
		HasResult:     s.result != nil,
		CreatedAt:     s.CreatedAt,
	}
	switch s.mode {
	case genai.ModeRehearsal:
		snap.Question = s.question
		snap.PerfectAnswer = s.perfectAnswer
	case genai.ModeInterview:
		snap.ResumeInfo = s.resumeInfo
		snap.ResumeText = s.resumeText
		snap.Questions = s.questions
		if s.selected >= 0 && s.selected < len(s.questions) {
			idx := s.selected
			snap.SelectedIndex = &idx
		}
	}
	return snap
}
