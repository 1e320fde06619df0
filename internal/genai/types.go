package genai

import "context"

// Mode is the analysis context sent to the evaluator.
type Mode string

const (
	ModePresentation Mode = "Presentation Mode"
	ModeInterview    Mode = "Interview Mode"
	ModeRehearsal    Mode = "Rehearsal Mode"
)

// ParseMode validates a wire-format mode string.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModePresentation, ModeInterview, ModeRehearsal:
		return Mode(s), true
	}
	return "", false
}

// SegmentType classifies one unit of the highlighted transcription.
type SegmentType string

const (
	SegmentDefault SegmentType = "default"
	SegmentFiller  SegmentType = "filler"
	SegmentPause   SegmentType = "pause"
)

// HighlightedSegment is one unit of the highlighted transcription.
// Concatenating the Text fields of all segments reconstructs the full
// transcription with pause annotations inserted in place.
type HighlightedSegment struct {
	Text string      `json:"text"`
	Type SegmentType `json:"type"`
}

// AnalyzeSpeechInput is the evaluator request.
type AnalyzeSpeechInput struct {
	// SpeechSample is either plain transcription text or an audio data URI
	// (data:<mime>;base64,<payload>).
	SpeechSample  string `json:"speechSample"`
	Mode          Mode   `json:"mode"`
	Question      string `json:"question,omitempty"`
	PerfectAnswer string `json:"perfectAnswer,omitempty"`
}

// SpeechMetadata is the metadata block of an analysis result.
type SpeechMetadata struct {
	WordCount              int     `json:"wordCount"`
	FillerWordCount        int     `json:"fillerWordCount"`
	SpeechRateWPM          float64 `json:"speechRateWPM"`
	AveragePauseDurationMs float64 `json:"averagePauseDurationMs"`
	PitchVariance          float64 `json:"pitchVariance"`
	AudioDurationSeconds   float64 `json:"audioDurationSeconds,omitempty"`
	PaceScore              float64 `json:"paceScore"`
	ClarityScore           float64 `json:"clarityScore"`
	PausePercentage        float64 `json:"pausePercentage"`
}

// CriterionEvaluation is the evaluation of a single named criterion.
type CriterionEvaluation struct {
	Category   string  `json:"category"` // Delivery, Language or Content
	Criteria   string  `json:"criteria"`
	Score      float64 `json:"score"` // 0-10
	Evaluation string  `json:"evaluation"`
	Comparison string  `json:"comparison,omitempty"` // Rehearsal Mode only
	Feedback   string  `json:"feedback"`
}

// AnalyzeSpeechOutput is the evaluator's structured result.
type AnalyzeSpeechOutput struct {
	Metadata                 SpeechMetadata        `json:"metadata"`
	HighlightedTranscription []HighlightedSegment  `json:"highlightedTranscription,omitempty"`
	EvaluationCriteria       []CriterionEvaluation `json:"evaluationCriteria"`
	TotalScore               float64               `json:"totalScore"` // 0-100
	OverallAssessment        string                `json:"overallAssessment"`
	SuggestedSpeech          string                `json:"suggestedSpeech,omitempty"`
}

// ResumeContact holds whatever contact details were found in the resume.
type ResumeContact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ResumeExperience is one professional experience entry.
type ResumeExperience struct {
	JobTitle         string   `json:"jobTitle"`
	Company          string   `json:"company"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	Responsibilities []string `json:"responsibilities"`
}

// ResumeEducation is one educational qualification entry.
type ResumeEducation struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Major          string `json:"major,omitempty"`
	GraduationDate string `json:"graduationDate,omitempty"`
}

// ResumeProject is one personal or academic project entry.
type ResumeProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

// ExtractedResumeInfo is the structured record extracted from a resume.
// A field that was not found in the source is omitted entirely, never
// filled with an empty placeholder.
type ExtractedResumeInfo struct {
	Name           string             `json:"name,omitempty"`
	Contact        *ResumeContact     `json:"contact,omitempty"`
	Summary        string             `json:"summary,omitempty"`
	Experience     []ResumeExperience `json:"experience,omitempty"`
	Education      []ResumeEducation  `json:"education,omitempty"`
	Skills         []string           `json:"skills,omitempty"`
	Projects       []ResumeProject    `json:"projects,omitempty"`
	Certifications []string           `json:"certifications,omitempty"`
}

// InterviewQuestion is a question with its ideal answer, tailored to a resume.
type InterviewQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MaxInterviewQuestions caps the generated question list.
const MaxInterviewQuestions = 3

// Client defines the interface to the external generative-model service.
type Client interface {
	// AnalyzeSpeech evaluates a speech sample in the given context.
	AnalyzeSpeech(ctx context.Context, input AnalyzeSpeechInput) (*AnalyzeSpeechOutput, error)

	// ExtractResumeInfo parses a resume file (data URI) into structured fields.
	ExtractResumeInfo(ctx context.Context, fileDataURI string) (*ExtractedResumeInfo, error)

	// ExtractTextFromFile extracts the full plain text from a file (data URI).
	ExtractTextFromFile(ctx context.Context, fileDataURI string) (string, error)

	// GenerateQuestionsFromResume generates up to MaxInterviewQuestions
	// question/ideal-answer pairs from a resume summary and its full text.
	GenerateQuestionsFromResume(ctx context.Context, summary, fullText string) ([]InterviewQuestion, error)

	// SummarizeSpeech returns a concise summary of a transcript.
	SummarizeSpeech(ctx context.Context, speechText string) (string, error)
}
