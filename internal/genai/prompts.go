package genai

import (
	"fmt"
	"strings"
)

const speechCoachIntro = `You are a professional speech coach. Your task is to analyze a speech sample and provide constructive feedback.`

const examEvaluatorIntro = `You are a professional exam evaluator. Your task is to evaluate the candidate's answer compared to the perfect answer based on the following 15 criteria. For each criterion, you must provide:
- Evaluation: a brief assessment of the candidate's performance on that criterion.
- Comparison: a detailed analysis of how the candidate's answer compares with the perfect answer for that criterion.
- Feedback: specific, actionable suggestions for improvement.`

const analyzeInstructions = `Return your answer as a valid JSON object following the schema exactly (do not include any extra text).

Follow these instructions when generating the JSON:
- Evaluate the speech sample on ALL 15 of the following criteria.
- Delivery criteria: Fluency, Pacing, Clarity, Confidence, Emotional Tone. Assign the category 'Delivery' to these.
- Language criteria: Grammar, Vocabulary, Word Choice, Conciseness, Filler Words. Assign the category 'Language' to these.
- Content criteria: Relevance, Organization, Accuracy, Depth, Persuasiveness. Assign the category 'Content' to these.
- For each of the 15 criteria, provide a score from 0-10, an evaluation, and actionable feedback.
- The totalScore is from 0 to 100, and should evaluate the speech sample and context as a whole.
- The wordCount, fillerWordCount, speechRateWPM, averagePauseDurationMs, and pitchVariance should be calculated or estimated from the transcription.
- The paceScore and clarityScore should be scores from 0-100 based on the analysis.
- The pausePercentage should be the estimated percentage of total time the speaker was pausing.
- The suggestedSpeech is a sample of how the speaker could have delivered their message more effectively.
- highlightedTranscription: this is critical. You must meticulously segment the entire transcription. Create a segment for every single word or pause. A 'filler' type is ONLY for a single filler word (e.g., um, ah, like). A 'pause' type is for significant silences (e.g., '[PAUSE: 1.2s]'). All other words are 'default'. Concatenating all 'text' fields MUST reconstruct the full transcription with pause annotations. Do not leave this field empty. Be extremely thorough.`

const analyzeJSONSchema = `{
  "metadata": {
    "wordCount": number,
    "fillerWordCount": number,
    "speechRateWPM": number,
    "averagePauseDurationMs": number,
    "pitchVariance": number,
    "audioDurationSeconds": number (optional, only when audio was provided),
    "paceScore": number (0-100, ideal pace is 140-160 WPM),
    "clarityScore": number (0-100),
    "pausePercentage": number (0-100)
  },
  "highlightedTranscription": [{"text": string, "type": "default"|"filler"|"pause"}],
  "evaluationCriteria": [{"category": "Delivery"|"Language"|"Content", "criteria": string, "score": number (0-10), "evaluation": string, "comparison": string (Rehearsal Mode only), "feedback": string}],
  "totalScore": number (0-100),
  "overallAssessment": string,
  "suggestedSpeech": string
}`

// buildAnalyzePrompt renders the evaluator prompt. The framing switches from
// speech coach to exam evaluator when a perfect answer is supplied, matching
// how Rehearsal comparisons are scored. When the sample is audio it is sent
// as a media part instead, so only the context lines reference it here.
func buildAnalyzePrompt(input AnalyzeSpeechInput, isAudio bool) string {
	var b strings.Builder

	if input.PerfectAnswer != "" {
		b.WriteString(examEvaluatorIntro)
	} else {
		b.WriteString(speechCoachIntro)
	}
	b.WriteString("\n\n")

	b.WriteString("IMPORTANT: The speech sample may be provided as text OR as an audio file. If an audio file is attached you MUST first transcribe the audio into text. Then, use that transcription for the analysis below.\n\n")

	b.WriteString("Speech Sample (Candidate's Answer):\n")
	if isAudio {
		b.WriteString("[attached audio file]\n")
	} else {
		b.WriteString(input.SpeechSample)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Context: %s\n", input.Mode)
	if input.Question != "" {
		fmt.Fprintf(&b, "Question: %s\n", input.Question)
	}
	if input.PerfectAnswer != "" {
		fmt.Fprintf(&b, "Perfect Answer: %s\n", input.PerfectAnswer)
	}
	b.WriteString("\n")

	b.WriteString("JSON Output Schema:\n")
	b.WriteString(analyzeJSONSchema)
	b.WriteString("\n\n")
	b.WriteString(analyzeInstructions)
	if input.PerfectAnswer != "" {
		b.WriteString("\n- For each criterion, you MUST also provide a 'comparison' of the candidate's answer to the perfect answer.")
	}

	return b.String()
}

const extractResumePrompt = `You are an expert resume parser. Your task is to analyze the provided resume file and extract key information into a structured JSON format.

Instructions:
1. Thoroughly read the resume file attached to this request.
2. Identify and extract information for the following fields: name, contact (email, phone, linkedin, website), summary, experience (jobTitle, company, location, startDate, endDate, responsibilities), education (institution, degree, major, graduationDate), skills, projects (name, description, technologies), and certifications.
3. Populate the JSON object with the data you find.
4. If a section or piece of information (like 'projects' or 'certifications') is not present in the resume, you MUST omit the corresponding field or array from the JSON output entirely. Do not include empty arrays or null values for missing sections.
5. Return ONLY the valid JSON object. Do not include any extra text, explanations, or markdown formatting.`

const extractTextPrompt = `You are an expert file parser. Your sole task is to extract all the plain text content from the provided file.

Instructions:
1. Thoroughly read the file attached to this request.
2. Extract every piece of text you can find.
3. Do not add any summaries, explanations, or formatting.
4. The output must be a valid JSON object of the form {"text": string}, with the full text inside the 'text' field.`

// buildQuestionsPrompt renders the interview question generator prompt.
func buildQuestionsPrompt(summary, fullText string) string {
	return fmt.Sprintf(`You are an expert career coach and hiring manager. Your task is to analyze the provided resume text and generate a set of interview questions and answers to help a candidate prepare.

Instructions:
1. First, analyze the resume summary to understand the candidate's key qualifications:
   Resume Summary:
   %s
2. Next, use the FULL resume text provided below to find specific details to craft the answers.
3. Generate exactly three common but important interview questions based on the summary. One of the questions MUST be "Tell me about yourself".
4. For EACH of the three questions, you must craft a complete, detailed, and ideal answer using the FULL RESUME TEXT.
5. Crucially, the answer MUST be written from the candidate's perspective (first-person "I") as if they were speaking it aloud.
6. The answer's content must be derived exclusively from the information present in the full resume text. Weave the specific details (like university name, job titles, project outcomes, etc.) into the narrative of the answer. Do not invent skills, experiences, or details not mentioned in the text.
7. The answer should not be a list of suggestions or a template with placeholders like [University Name]. It must be a ready-to-use, well-structured narrative that demonstrates the candidate's skills and experiences effectively. Think of it as a script for the candidate to practice.

Full Resume Text:
%s

Return the result as a valid JSON object of the form {"questions": [{"question": string, "answer": string}]}.`, summary, fullText)
}

// buildSummaryPrompt renders the speech summarizer prompt.
func buildSummaryPrompt(speechText string) string {
	return fmt.Sprintf(`You are an expert speech summarizer. Please provide a concise summary of the following speech. Return the result as a valid JSON object of the form {"summary": string}.

Speech:
%s`, speechText)
}
