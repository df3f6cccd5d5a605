package services

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"divorce_intake_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns A4 portrait defaults for synthesis exports
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

// BuildSyntheseHTML wraps a dossier's sanitized synthesis in a printable page
func BuildSyntheseHTML(dossier *models.Dossier) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><style>
body { font-family: Georgia, serif; color: #1a1a1a; font-size: 12pt; line-height: 1.5; }
h1 { font-size: 16pt; border-bottom: 1px solid #999; padding-bottom: 8px; }
h2 { font-size: 13pt; margin-top: 24px; }
.meta { color: #555; font-size: 10pt; margin-bottom: 24px; }
</style></head><body>`)
	sb.WriteString(fmt.Sprintf("<h1>Synthese juridique — Dossier %s</h1>", html.EscapeString(dossier.Reference)))
	sb.WriteString(fmt.Sprintf(`<p class="meta">Juridiction: %s — Procedure: %s — Genere le %s</p>`,
		html.EscapeString(dossier.Pays),
		html.EscapeString(dossier.TypeProcedure),
		time.Now().Format("02/01/2006")))
	// SyntheseHTML is sanitized at write time
	sb.WriteString(dossier.SyntheseHTML)
	sb.WriteString("</body></html>")
	return sb.String()
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// A4 dimensions in inches
	paperWidth := 8.27
	paperHeight := 11.69
	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// Convert points to inches for margins
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
