package service

import (
	"context"
	"fmt"
	"strings"

	"resume-parser/internal/domain"

	"github.com/ledongthuc/pdf"
)

// PDF engines selectable with PDF_ENGINE.
const (
	EnginePDF  = "pdf"
	EngineFitz = "fitz"
)

// NewTextExtractor returns the text extractor for engine.
func NewTextExtractor(engine string, logger domain.Logger) (domain.TextExtractor, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EnginePDF:
		return NewPlainPDFExtractor(logger), nil
	case EngineFitz:
		return NewFitzExtractor(logger), nil
	default:
		return nil, fmt.Errorf("unknown PDF engine %q", engine)
	}
}

// PlainPDFExtractor extracts PDF text with the pure Go ledongthuc/pdf reader.
type PlainPDFExtractor struct {
	logger domain.Logger
}

func NewPlainPDFExtractor(logger domain.Logger) *PlainPDFExtractor {
	return &PlainPDFExtractor{logger: logger}
}

// Extract returns the text of every non-empty page at path, in page order,
// joined by a single space.
func (e *PlainPDFExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}
	text = joinPages(pages)
	e.logger.Debug("PDF text extracted", "pages", numPages, "chars", len(text))

	return text, nil
}
