package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/util"
)

// ErrElementMissing is returned when the aggregate has nothing to print.
var ErrElementMissing = errors.New("resume has no renderable content")

// A4 dimensions in inches, the unit PrintToPDF takes.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
)

const defaultGenerateTimeout = 60 * time.Second

// RenderFunc turns an aggregate into HTML for the given template choice.
type RenderFunc func(agg resumes.Aggregate, templateID int) (string, error)

// Generator produces paginated PDFs by loading the rendered resume into a
// headless browser and printing it to A4 pages. Requires Chrome/Chromium on
// the host.
type Generator struct {
	Render  RenderFunc
	Timeout time.Duration
}

// NewGenerator constructs a Generator.
func NewGenerator(render RenderFunc) *Generator {
	return &Generator{Render: render, Timeout: defaultGenerateTimeout}
}

// Generate renders the aggregate with the chosen template and prints it.
// Content taller than one page flows onto additional pages.
func (g *Generator) Generate(ctx context.Context, agg resumes.Aggregate, templateID int) ([]byte, error) {
	if agg.Empty() {
		return nil, ErrElementMissing
	}

	html, err := g.Render(agg, templateID)
	if err != nil {
		return nil, fmt.Errorf("render resume: %w", err)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("#resume"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}

	return pdf, nil
}

// FileName derives the download name from the personal name, falling back to
// the resume title.
func FileName(agg resumes.Aggregate) string {
	base := strings.TrimSpace(agg.Personal.FullName)
	if base == "" {
		base = strings.TrimSpace(agg.Title)
	}
	if base == "" {
		base = "resume"
	}
	safe, err := util.SanitizeFileName(base)
	if err != nil {
		safe = "resume"
	}
	return safe + ".pdf"
}
