package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const geminiAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient implements the Client interface using the Gemini REST API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey  string
	Model   string // e.g. "gemini-1.5-flash-latest"
	BaseURL string // override for tests, defaults to the public API

	// HTTPClient lets callers share a pooled client. Defaults to a plain
	// http.Client; request deadlines come from the caller's context.
	HTTPClient *http.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiAPIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// geminiRequest represents a Gemini generateContent request.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 payload without the data URI prefix
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// geminiResponse represents a Gemini generateContent response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// generate issues one generateContent call and decodes the JSON payload of
// the first candidate into out.
func (c *GeminiClient) generate(ctx context.Context, parts []geminiPart, out any) error {
	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0.3,
			ResponseMimeType: "application/json",
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Gemini API error: %s - %s", resp.Status, string(respBody))
	}

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	content := stripJSONFences(genResp.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse model output: %w (content: %s)", err, content)
	}
	return nil
}

// stripJSONFences removes markdown code fences the model sometimes wraps
// around its JSON output despite being asked not to.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseDataURI splits a data:<mime>;base64,<payload> URI into its MIME type
// and raw base64 payload.
func parseDataURI(uri string) (mimeType, data string, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URI: missing payload")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	if mimeType == meta {
		return "", "", fmt.Errorf("malformed data URI: not base64 encoded")
	}
	if mimeType == "" {
		return "", "", fmt.Errorf("malformed data URI: missing MIME type")
	}
	return mimeType, payload, nil
}

// IsAudioDataURI reports whether a speech sample string is an audio data URI
// rather than plain transcription text.
func IsAudioDataURI(sample string) bool {
	return strings.HasPrefix(sample, "data:audio")
}

// AnalyzeSpeech evaluates a speech sample in the given context.
func (c *GeminiClient) AnalyzeSpeech(ctx context.Context, input AnalyzeSpeechInput) (*AnalyzeSpeechOutput, error) {
	isAudio := IsAudioDataURI(input.SpeechSample)

	parts := []geminiPart{{Text: buildAnalyzePrompt(input, isAudio)}}
	if isAudio {
		mimeType, data, err := parseDataURI(input.SpeechSample)
		if err != nil {
			return nil, fmt.Errorf("invalid audio sample: %w", err)
		}
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}})
	}

	var out AnalyzeSpeechOutput
	if err := c.generate(ctx, parts, &out); err != nil {
		return nil, fmt.Errorf("analyze speech: %w", err)
	}
	return &out, nil
}

// ExtractResumeInfo parses a resume file into structured fields.
func (c *GeminiClient) ExtractResumeInfo(ctx context.Context, fileDataURI string) (*ExtractedResumeInfo, error) {
	mimeType, data, err := parseDataURI(fileDataURI)
	if err != nil {
		return nil, fmt.Errorf("invalid resume file: %w", err)
	}

	parts := []geminiPart{
		{Text: extractResumePrompt},
		{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}},
	}

	var out ExtractedResumeInfo
	if err := c.generate(ctx, parts, &out); err != nil {
		return nil, fmt.Errorf("extract resume info: %w", err)
	}
	return &out, nil
}

// ExtractTextFromFile extracts the full plain text from a file.
func (c *GeminiClient) ExtractTextFromFile(ctx context.Context, fileDataURI string) (string, error) {
	mimeType, data, err := parseDataURI(fileDataURI)
	if err != nil {
		return "", fmt.Errorf("invalid file: %w", err)
	}

	parts := []geminiPart{
		{Text: extractTextPrompt},
		{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}},
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := c.generate(ctx, parts, &out); err != nil {
		return "", fmt.Errorf("extract text from file: %w", err)
	}
	return out.Text, nil
}

// GenerateQuestionsFromResume generates up to MaxInterviewQuestions
// question/ideal-answer pairs.
func (c *GeminiClient) GenerateQuestionsFromResume(ctx context.Context, summary, fullText string) ([]InterviewQuestion, error) {
	parts := []geminiPart{{Text: buildQuestionsPrompt(summary, fullText)}}

	var out struct {
		Questions []InterviewQuestion `json:"questions"`
	}
	if err := c.generate(ctx, parts, &out); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	// The model is asked for exactly three but the cap is enforced here.
	if len(out.Questions) > MaxInterviewQuestions {
		out.Questions = out.Questions[:MaxInterviewQuestions]
	}
	return out.Questions, nil
}

// SummarizeSpeech returns a concise summary of a transcript.
func (c *GeminiClient) SummarizeSpeech(ctx context.Context, speechText string) (string, error) {
	parts := []geminiPart{{Text: buildSummaryPrompt(speechText)}}

	var out struct {
		Summary string `json:"summary"`
	}
	if err := c.generate(ctx, parts, &out); err != nil {
		return "", fmt.Errorf("summarize speech: %w", err)
	}
	return out.Summary, nil
}
