package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/signintech/gopdf"
)

// Summary carries the fields rendered into a PDF triage summary. Defined
// here so the report layer does not depend on the triage package.
type Summary struct {
	SessionID    string
	Summary      string
	TriageLevel  string
	Steps        []string
	MessageCount int
}

// Service renders downloadable PDF summaries of triage sessions.
type Service struct {
	fontPaths []string
}

func NewService() *Service {
	return &Service{
		// Common DejaVuSans locations across debian/alpine images.
		fontPaths: []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		},
	}
}

// SummaryPDF renders the summary into a single-page PDF.
func (s *Service) SummaryPDF(summary Summary) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load PDF font, is ttf-dejavu installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "HealthGuide Triage Summary")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session: %s", summary.SessionID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Triage level: %s", summary.TriageLevel))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Messages exchanged: %d", summary.MessageCount))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Summary:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	lines, _ := pdf.SplitText(summary.Summary, 500)
	for _, line := range lines {
		pdf.Cell(nil, line)
		pdf.Br(12)
	}
	pdf.Br(15)

	if len(summary.Steps) > 0 {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Recommended next steps:")
		pdf.Br(15)

		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		for _, step := range summary.Steps {
			stepLines, _ := pdf.SplitText("- "+step, 500)
			for _, line := range stepLines {
				pdf.Cell(nil, line)
				pdf.Br(12)
			}
			pdf.Br(3)
		}
	}

	pdf.SetY(800)
	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "This summary does not constitute a diagnosis. In an emergency, call emergency services.")

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
