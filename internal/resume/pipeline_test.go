package resume

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/cognisys-ai/verbal-insights/internal/genai"
)

// stubClient lets each extraction leg succeed or fail independently.
type stubClient struct {
	info    *genai.ExtractedResumeInfo
	infoErr error

	text    string
	textErr error

	questions    []genai.InterviewQuestion
	questionsErr error

	infoCalls      atomic.Int64
	textCalls      atomic.Int64
	questionsCalls atomic.Int64
}

func (c *stubClient) AnalyzeSpeech(context.Context, genai.AnalyzeSpeechInput) (*genai.AnalyzeSpeechOutput, error) {
	return nil, errors.New("not implemented")
}

func (c *stubClient) ExtractResumeInfo(context.Context, string) (*genai.ExtractedResumeInfo, error) {
	c.infoCalls.Add(1)
	return c.info, c.infoErr
}

func (c *stubClient) ExtractTextFromFile(context.Context, string) (string, error) {
	c.textCalls.Add(1)
	return c.text, c.textErr
}

func (c *stubClient) GenerateQuestionsFromResume(context.Context, string, string) ([]genai.InterviewQuestion, error) {
	c.questionsCalls.Add(1)
	return c.questions, c.questionsErr
}

func (c *stubClient) SummarizeSpeech(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func TestExtract_BothLegsJoined(t *testing.T) {
	client := &stubClient{
		info: &genai.ExtractedResumeInfo{Name: "Ada Lovelace"},
		text: "Ada Lovelace. Mathematician.",
	}
	p := NewPipeline(client)

	ext, err := p.Extract(context.Background(), "data:application/pdf;base64,JVBERi0=")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if ext.Info.Name != "Ada Lovelace" {
		t.Errorf("Info.Name = %q, want %q", ext.Info.Name, "Ada Lovelace")
	}
	if ext.Text != "Ada Lovelace. Mathematician." {
		t.Errorf("Text = %q, want full text", ext.Text)
	}
	if client.infoCalls.Load() != 1 || client.textCalls.Load() != 1 {
		t.Errorf("calls = (%d, %d), want both legs issued once", client.infoCalls.Load(), client.textCalls.Load())
	}
}

func TestExtract_AtomicOnEitherLegFailure(t *testing.T) {
	tests := []struct {
		name   string
		client *stubClient
	}{
		{"structured leg fails", &stubClient{infoErr: errors.New("boom"), text: "text"}},
		{"text leg fails", &stubClient{info: &genai.ExtractedResumeInfo{Name: "Ada"}, textErr: errors.New("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.client)
			ext, err := p.Extract(context.Background(), "data:application/pdf;base64,JVBERi0=")
			if err == nil {
				t.Fatal("Extract() should fail when either leg fails")
			}
			if ext != nil {
				t.Error("Extract() must not return a partial result")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		info *genai.ExtractedResumeInfo
		want string
	}{
		{
			name: "prefers explicit summary",
			info: &genai.ExtractedResumeInfo{
				Summary: "Backend engineer with 10 years of experience.",
				Experience: []genai.ResumeExperience{
					{JobTitle: "Engineer", Company: "Acme"},
				},
			},
			want: "Backend engineer with 10 years of experience.",
		},
		{
			name: "synthesizes job titles",
			info: &genai.ExtractedResumeInfo{
				Experience: []genai.ResumeExperience{
					{JobTitle: "Engineer", Company: "Acme"},
					{JobTitle: "Team Lead", Company: "Globex"},
				},
			},
			want: "Roles: Engineer, Team Lead",
		},
		{
			name: "nothing to summarize",
			info: &genai.ExtractedResumeInfo{Name: "Ada"},
			want: "",
		},
		{
			name: "nil info",
			info: nil,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.info); got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateQuestions(t *testing.T) {
	client := &stubClient{questions: []genai.InterviewQuestion{
		{Question: "Tell me about yourself", Answer: "a"},
		{Question: "q2", Answer: "b"},
	}}
	p := NewPipeline(client)

	qs, err := p.GenerateQuestions(context.Background(), &Extraction{
		Info: &genai.ExtractedResumeInfo{Summary: "summary"},
		Text: "full text",
	})
	if err != nil {
		t.Fatalf("GenerateQuestions() error = %v", err)
	}
	if len(qs) != 2 {
		t.Errorf("len(questions) = %d, want 2", len(qs))
	}
}

func TestGenerateQuestions_RequiresExtraction(t *testing.T) {
	p := NewPipeline(&stubClient{})

	if _, err := p.GenerateQuestions(context.Background(), nil); err == nil {
		t.Error("GenerateQuestions(nil) should fail")
	}
	if _, err := p.GenerateQuestions(context.Background(), &Extraction{}); err == nil {
		t.Error("GenerateQuestions() with empty extraction should fail")
	}
}

func TestGenerateQuestions_FailureDoesNotConsumeExtraction(t *testing.T) {
	client := &stubClient{questionsErr: errors.New("boom")}
	p := NewPipeline(client)

	ext := &Extraction{Info: &genai.ExtractedResumeInfo{Summary: "s"}, Text: "text"}
	if _, err := p.GenerateQuestions(context.Background(), ext); err == nil {
		t.Fatal("GenerateQuestions() should surface the service failure")
	}

	// The extraction is untouched and generation can be retried.
	client.questionsErr = nil
	client.questions = []genai.InterviewQuestion{{Question: "q", Answer: "a"}}
	if _, err := p.GenerateQuestions(context.Background(), ext); err != nil {
		t.Errorf("retry after failure error = %v", err)
	}
}

func TestGenerateQuestions_EmptyResultIsError(t *testing.T) {
	p := NewPipeline(&stubClient{questions: nil})
	ext := &Extraction{Text: "text"}
	if _, err := p.GenerateQuestions(context.Background(), ext); err == nil {
		t.Error("GenerateQuestions() should fail when no questions come back")
	}
}
