package session

import (
	"encoding/base64"
	"errors"
	"reflect"
	"testing"

	"github.com/cognisys-ai/verbal-insights/internal/genai"
)

func newTestSession(mode genai.Mode) *Session {
	return newSession("test-session", mode)
}

func TestSetMode_ClearsSampleAndResult(t *testing.T) {
	s := newTestSession(genai.ModePresentation)
	s.SetTextSample("hello world")
	s.SetResult(&genai.AnalyzeSpeechOutput{TotalScore: 50})

	s.SetMode(genai.ModeRehearsal)

	if s.Sample() != "" {
		t.Errorf("Sample() = %q, want empty after mode switch", s.Sample())
	}
	if s.Result() != nil {
		t.Error("Result() should be nil after mode switch")
	}
}

func TestSetMode_SameModeIsNoOp(t *testing.T) {
	s := newTestSession(genai.ModePresentation)
	s.SetTextSample("hello")
	s.SetMode(genai.ModePresentation)
	if s.Sample() != "hello" {
		t.Error("re-selecting the current mode should not clear the sample")
	}
}

func TestSetMode_LeavingInterviewClearsResumeState(t *testing.T) {
	s := newTestSession(genai.ModeInterview)
	s.CommitResume(&genai.ExtractedResumeInfo{Name: "Ada"}, "full text")
	if err := s.SetQuestions([]genai.InterviewQuestion{{Question: "q", Answer: "a"}}); err != nil {
		t.Fatalf("SetQuestions() error = %v", err)
	}
	if err := s.SelectQuestion(0); err != nil {
		t.Fatalf("SelectQuestion() error = %v", err)
	}

	s.SetMode(genai.ModePresentation)

	if info, text := s.Resume(); info != nil || text != "" {
		t.Error("resume state should be cleared when leaving Interview")
	}
	if len(s.Questions()) != 0 {
		t.Error("questions should be cleared when leaving Interview")
	}
	if _, ok := s.SelectedQuestion(); ok {
		t.Error("selection should be cleared when leaving Interview")
	}
}

func TestSetMode_LeavingRehearsalClearsAux(t *testing.T) {
	s := newTestSession(genai.ModeRehearsal)
	s.SetRehearsal("What is Go?", "Go is a programming language.")

	s.SetMode(genai.ModeInterview)

	if q, pa := s.Rehearsal(); q != "" || pa != "" {
		t.Errorf("Rehearsal() = (%q, %q), want cleared", q, pa)
	}
}

func TestSetSource_ResetsAllCaptureState(t *testing.T) {
	s := newTestSession(genai.ModePresentation)

	if _, err := s.ApplyTranscript("hello", true); err != nil {
		t.Fatalf("ApplyTranscript() error = %v", err)
	}
	if s.Sample() != "hello" {
		t.Fatalf("Sample() = %q, want %q", s.Sample(), "hello")
	}

	s.SetSource(SourceRecord)
	if s.Sample() != "" {
		t.Error("switching source should clear the sample")
	}

	if err := s.StartRecording("audio/webm"); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	s.SetSource(SourceUpload)
	if s.Recording() {
		t.Error("switching source should stop an active recording")
	}
	if s.Sample() != "" {
		t.Error("switching source should clear the sample")
	}
}

func TestCaptureOperationsRequireMatchingSource(t *testing.T) {
	s := newTestSession(genai.ModePresentation)

	if err := s.StartRecording("audio/webm"); !errors.Is(err, ErrWrongSource) {
		t.Errorf("StartRecording() on live source error = %v, want ErrWrongSource", err)
	}

	s.SetSource(SourceRecord)
	if _, err := s.ApplyTranscript("hi", true); !errors.Is(err, ErrWrongSource) {
		t.Errorf("ApplyTranscript() on record source error = %v, want ErrWrongSource", err)
	}
}

func TestRecordingFlowSetsSample(t *testing.T) {
	s := newTestSession(genai.ModePresentation)
	s.SetSource(SourceRecord)

	if err := s.StartRecording(""); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	chunk := base64.StdEncoding.EncodeToString([]byte("audio bytes"))
	if err := s.AppendRecordingChunk(chunk); err != nil {
		t.Fatalf("AppendRecordingChunk() error = %v", err)
	}

	uri, err := s.StopRecording()
	if err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
	if s.Sample() != uri {
		t.Error("StopRecording() should set the sealed data URI as the sample")
	}
	if !genai.IsAudioDataURI(uri) {
		t.Errorf("sample %q should be an audio data URI", uri)
	}
}

func TestSetQuestions_RequiresResumeAndReplacesWholesale(t *testing.T) {
	s := newTestSession(genai.ModeInterview)

	if err := s.SetQuestions([]genai.InterviewQuestion{{Question: "q"}}); !errors.Is(err, ErrNoResume) {
		t.Errorf("SetQuestions() before extraction error = %v, want ErrNoResume", err)
	}

	s.CommitResume(&genai.ExtractedResumeInfo{Name: "Ada"}, "text")

	first := []genai.InterviewQuestion{
		{Question: "Tell me about yourself", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}
	if err := s.SetQuestions(first); err != nil {
		t.Fatalf("SetQuestions() error = %v", err)
	}
	if err := s.SelectQuestion(1); err != nil {
		t.Fatalf("SelectQuestion() error = %v", err)
	}

	second := []genai.InterviewQuestion{{Question: "q3", Answer: "a3"}}
	if err := s.SetQuestions(second); err != nil {
		t.Fatalf("SetQuestions() error = %v", err)
	}
	if !reflect.DeepEqual(s.Questions(), second) {
		t.Errorf("Questions() = %v, want replacement list %v", s.Questions(), second)
	}
	if _, ok := s.SelectedQuestion(); ok {
		t.Error("regeneration should clear the prior selection")
	}
}

func TestSetQuestions_CapsAtThree(t *testing.T) {
	s := newTestSession(genai.ModeInterview)
	s.CommitResume(&genai.ExtractedResumeInfo{}, "text")

	qs := []genai.InterviewQuestion{{Question: "1"}, {Question: "2"}, {Question: "3"}, {Question: "4"}}
	if err := s.SetQuestions(qs); err != nil {
		t.Fatalf("SetQuestions() error = %v", err)
	}
	if got := len(s.Questions()); got != genai.MaxInterviewQuestions {
		t.Errorf("len(Questions()) = %d, want %d", got, genai.MaxInterviewQuestions)
	}
}

func TestSelectQuestion_Bounds(t *testing.T) {
	s := newTestSession(genai.ModeInterview)

	if err := s.SelectQuestion(0); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("SelectQuestion() with no questions error = %v, want ErrNoQuestions", err)
	}

	s.CommitResume(&genai.ExtractedResumeInfo{}, "text")
	_ = s.SetQuestions([]genai.InterviewQuestion{{Question: "q", Answer: "a"}})

	if err := s.SelectQuestion(1); !errors.Is(err, ErrBadQuestionIndex) {
		t.Errorf("SelectQuestion(1) error = %v, want ErrBadQuestionIndex", err)
	}
	if err := s.SelectQuestion(-1); !errors.Is(err, ErrBadQuestionIndex) {
		t.Errorf("SelectQuestion(-1) error = %v, want ErrBadQuestionIndex", err)
	}
	if err := s.SelectQuestion(0); err != nil {
		t.Errorf("SelectQuestion(0) error = %v", err)
	}
	q, ok := s.SelectedQuestion()
	if !ok || q.Question != "q" {
		t.Errorf("SelectedQuestion() = (%v, %v), want question q", q, ok)
	}
}

func TestCommitResume_InvalidatesQuestions(t *testing.T) {
	s := newTestSession(genai.ModeInterview)
	s.CommitResume(&genai.ExtractedResumeInfo{Name: "Ada"}, "v1")
	_ = s.SetQuestions([]genai.InterviewQuestion{{Question: "q", Answer: "a"}})
	_ = s.SelectQuestion(0)

	s.CommitResume(&genai.ExtractedResumeInfo{Name: "Grace"}, "v2")

	if len(s.Questions()) != 0 {
		t.Error("a fresh extraction should invalidate previously generated questions")
	}
	if _, ok := s.SelectedQuestion(); ok {
		t.Error("a fresh extraction should clear the selection")
	}
}

func TestMissingForAnalysis(t *testing.T) {
	tests := []struct {
		name  string
		setup func() *Session
		want  []string
	}{
		{
			name:  "presentation without sample",
			setup: func() *Session { return newTestSession(genai.ModePresentation) },
			want:  []string{"speech sample"},
		},
		{
			name: "presentation with sample",
			setup: func() *Session {
				s := newTestSession(genai.ModePresentation)
				s.SetTextSample("hello")
				return s
			},
			want: nil,
		},
		{
			name: "rehearsal missing perfect answer",
			setup: func() *Session {
				s := newTestSession(genai.ModeRehearsal)
				s.SetTextSample("my answer")
				s.SetRehearsal("the question", "")
				return s
			},
			want: []string{"perfect answer"},
		},
		{
			name:  "rehearsal missing everything",
			setup: func() *Session { return newTestSession(genai.ModeRehearsal) },
			want:  []string{"speech sample", "question", "perfect answer"},
		},
		{
			name: "interview without selected question",
			setup: func() *Session {
				s := newTestSession(genai.ModeInterview)
				s.SetTextSample("my answer")
				return s
			},
			want: []string{"selected question"},
		},
		{
			name: "interview complete",
			setup: func() *Session {
				s := newTestSession(genai.ModeInterview)
				s.SetTextSample("my answer")
				s.CommitResume(&genai.ExtractedResumeInfo{}, "text")
				_ = s.SetQuestions([]genai.InterviewQuestion{{Question: "q", Answer: "a"}})
				_ = s.SelectQuestion(0)
				return s
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.setup().MissingForAnalysis()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingForAnalysis() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTryAcquireRelease(t *testing.T) {
	s := newTestSession(genai.ModePresentation)

	if !s.TryAcquire() {
		t.Fatal("TryAcquire() should succeed when idle")
	}
	if s.TryAcquire() {
		t.Error("TryAcquire() should fail while an operation is in flight")
	}
	s.Release()
	if !s.TryAcquire() {
		t.Error("TryAcquire() should succeed again after Release")
	}
}

func TestSnapshot_HidesOtherModesAux(t *testing.T) {
	s := newTestSession(genai.ModeRehearsal)
	s.SetRehearsal("q", "pa")
	snap := s.Snapshot()
	if snap.Question != "q" || snap.PerfectAnswer != "pa" {
		t.Error("rehearsal snapshot should expose question and perfect answer")
	}
	if snap.ResumeInfo != nil || len(snap.Questions) != 0 {
		t.Error("rehearsal snapshot should not expose interview state")
	}

	s2 := newTestSession(genai.ModeInterview)
	s2.CommitResume(&genai.ExtractedResumeInfo{Name: "Ada"}, "text")
	snap2 := s2.Snapshot()
	if snap2.ResumeInfo == nil || snap2.ResumeText != "text" {
		t.Error("interview snapshot should expose resume state")
	}
	if snap2.Question != "" || snap2.PerfectAnswer != "" {
		t.Error("interview snapshot should not expose rehearsal aux")
	}
}
