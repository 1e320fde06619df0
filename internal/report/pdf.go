// Package report renders an analysis result into a paginated PDF document:
// header, overall assessment, full transcription, key metrics, per-category
// feedback, and the suggested delivery example.
package report

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cognisys-ai/verbal-insights/internal/analysis"
	"github.com/cognisys-ai/verbal-insights/internal/genai"
	"github.com/cognisys-ai/verbal-insights/internal/taxonomy"
)

const (
	pageMargin = 15.0 // mm
	lineHeight = 7.0  // mm
	logoSize   = 15.0 // mm
)

// Exporter renders analysis results as PDF reports.
type Exporter struct {
	tax        *taxonomy.Taxonomy
	logger     *log.Logger
	httpClient *http.Client
}

// NewExporter creates an Exporter. The HTTP client is only used for the
// optional header logo.
func NewExporter(tax *taxonomy.Taxonomy, logger *log.Logger) *Exporter {
	return &Exporter{
		tax:    tax,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// doc wraps the PDF with the vertical cursor and page-break bookkeeping.
type doc struct {
	pdf        *gofpdf.Fpdf
	y          float64
	pageWidth  float64
	pageHeight float64
}

// checkY starts a new page when the next block of the given height would
// overflow the drawable area.
func (d *doc) checkY(increment float64) {
	if d.y+increment > d.pageHeight-pageMargin {
		d.pdf.AddPage()
		d.y = pageMargin
	}
}

// writeWrapped wraps text to the drawable width minus indent and draws it
// line by line, breaking pages as needed.
func (d *doc) writeWrapped(text string, indent float64) {
	lines := d.pdf.SplitText(text, d.pageWidth-2*pageMargin-indent)
	for _, line := range lines {
		d.checkY(lineHeight)
		d.pdf.Text(pageMargin+indent, d.y, line)
		d.y += lineHeight
	}
}

// sectionHeader draws a bold section title with a separator rule.
func (d *doc) sectionHeader(title string) {
	d.checkY(lineHeight * 3)
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.Text(pageMargin, d.y, title)
	d.y += lineHeight
	d.pdf.SetDrawColor(200, 200, 200)
	d.pdf.Line(pageMargin, d.y-lineHeight/2, d.pageWidth-pageMargin, d.y-lineHeight/2)
	d.y += lineHeight / 2
}

// Export renders the result in fixed section order and returns the PDF bytes.
func (e *Exporter) Export(result *genai.AnalyzeSpeechOutput) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis result to export")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	d := &doc{pdf: pdf, y: pageMargin, pageWidth: w, pageHeight: h}

	e.drawHeader(d)
	e.drawTitle(d)
	e.drawOverallAssessment(d, result)
	e.drawTranscription(d, result)
	e.drawKeyMetrics(d, &result.Metadata)
	e.drawFeedback(d, result)
	e.drawSuggestedSpeech(d, result)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader draws the logo and brand name. A failed logo fetch degrades to
// a text-only header, never aborts the export.
func (e *Exporter) drawHeader(d *doc) {
	brand := e.tax.BrandName
	d.pdf.SetFont("Helvetica", "B", 16)

	logo := e.fetchLogo()
	if logo != nil {
		d.pdf.RegisterImageOptionsReader("logo", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(logo))
		d.pdf.ImageOptions("logo", pageMargin, d.y, logoSize, logoSize, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		d.pdf.Text(pageMargin+logoSize+5, d.y+10, brand)
	} else {
		d.pdf.Text(pageMargin, d.y+10, brand)
	}
	d.y += 30
}

// fetchLogo downloads and sanity-decodes the remote logo. Any failure
// returns nil.
func (e *Exporter) fetchLogo() []byte {
	if e.tax.LogoURL == "" {
		return nil
	}
	resp, err := e.httpClient.Get(e.tax.LogoURL)
	if err != nil {
		e.logger.Printf("report: logo fetch failed: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		e.logger.Printf("report: logo fetch failed: %s", resp.Status)
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		e.logger.Printf("report: logo read failed: %v", err)
		return nil
	}
	// Decode up front so a bad image degrades to the text header instead of
	// poisoning the PDF error state.
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		e.logger.Printf("report: logo is not a usable PNG: %v", err)
		return nil
	}
	return raw
}

func (e *Exporter) drawTitle(d *doc) {
	d.pdf.SetFont("Helvetica", "B", 22)
	title := "Verbal Insights: Speech Analysis Report"
	tw := d.pdf.GetStringWidth(title)
	d.pdf.Text((d.pageWidth-tw)/2, d.y, title)
	d.y += lineHeight * 2
}

func (e *Exporter) drawOverallAssessment(d *doc, result *genai.AnalyzeSpeechOutput) {
	d.sectionHeader("Overall Assessment")

	d.pdf.SetFont("Helvetica", "", 12)
	d.checkY(lineHeight)
	d.pdf.Text(pageMargin, d.y, fmt.Sprintf("Total Score: %.0f/100", result.TotalScore))
	d.y += lineHeight

	d.writeWrapped(result.OverallAssessment, 0)
	d.y += lineHeight
}

func (e *Exporter) drawTranscription(d *doc, result *genai.AnalyzeSpeechOutput) {
	if len(result.HighlightedTranscription) == 0 {
		return
	}
	d.sectionHeader("Full Transcription")

	d.pdf.SetFont("Helvetica", "", 10)
	d.writeWrapped(analysis.JoinSegments(result.HighlightedTranscription), 0)
	d.y += lineHeight
}

func (e *Exporter) drawKeyMetrics(d *doc, m *genai.SpeechMetadata) {
	d.sectionHeader("Key Metrics")

	metrics := []string{
		fmt.Sprintf("Word Count: %d", m.WordCount),
		fmt.Sprintf("Filler Words: %d", m.FillerWordCount),
		fmt.Sprintf("Speech Rate (WPM): %.0f", m.SpeechRateWPM),
		fmt.Sprintf("Pitch Variance: %.2f", m.PitchVariance),
		fmt.Sprintf("Average Pause (ms): %.0f", m.AveragePauseDurationMs),
		fmt.Sprintf("Pace Score: %.0f/100", m.PaceScore),
		fmt.Sprintf("Clarity Score: %.0f/100", m.ClarityScore),
		fmt.Sprintf("Pause Time: %.1f%%", m.PausePercentage),
	}
	if m.AudioDurationSeconds > 0 {
		metrics = append(metrics, fmt.Sprintf("Audio Duration (s): %.2f", m.AudioDurationSeconds))
	}

	d.pdf.SetFont("Helvetica", "", 12)
	for _, metric := range metrics {
		d.checkY(lineHeight)
		d.pdf.Text(pageMargin, d.y, metric)
		d.y += lineHeight
	}
	d.y += lineHeight
}

// drawFeedback groups criteria by category in taxonomy order; criteria with
// an unknown category land in a trailing group so nothing is silently
// dropped.
func (e *Exporter) drawFeedback(d *doc, result *genai.AnalyzeSpeechOutput) {
	if len(result.EvaluationCriteria) == 0 {
		return
	}
	d.sectionHeader("Detailed Feedback")

	grouped := make(map[string][]genai.CriterionEvaluation)
	var extra []string
	for _, c := range result.EvaluationCriteria {
		if _, seen := grouped[c.Category]; !seen && !knownCategory(e.tax, c.Category) {
			extra = append(extra, c.Category)
		}
		grouped[c.Category] = append(grouped[c.Category], c)
	}

	order := append(append([]string{}, e.tax.Categories...), extra...)
	for _, category := range order {
		items := grouped[category]
		if len(items) == 0 {
			continue
		}

		d.checkY(lineHeight * 2)
		d.pdf.SetFont("Helvetica", "B", 14)
		d.pdf.Text(pageMargin, d.y, category)
		d.y += lineHeight

		for _, item := range items {
			d.checkY(lineHeight * 5)
			d.pdf.SetFont("Helvetica", "B", 12)
			d.pdf.Text(pageMargin+5, d.y, fmt.Sprintf("%s - Score: %.0f/10", item.Criteria, item.Score))
			d.y += lineHeight

			d.pdf.SetFont("Helvetica", "", 11)
			d.writeWrapped("Evaluation: "+item.Evaluation, 5)
			if item.Comparison != "" {
				d.writeWrapped("Comparison: "+item.Comparison, 5)
			}
			d.writeWrapped("Feedback: "+item.Feedback, 5)
			d.y += lineHeight / 2
		}
	}
}

func (e *Exporter) drawSuggestedSpeech(d *doc, result *genai.AnalyzeSpeechOutput) {
	if result.SuggestedSpeech == "" {
		return
	}
	d.sectionHeader("Suggested Delivery Example")

	d.pdf.SetFont("Helvetica", "I", 12)
	d.writeWrapped(result.SuggestedSpeech, 0)
}

func knownCategory(tax *taxonomy.Taxonomy, category string) bool {
	for _, c := range tax.Categories {
		if c == category {
			return true
		}
	}
	return false
}
