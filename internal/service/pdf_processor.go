package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-parser/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// FitzExtractor extracts PDF text with MuPDF.
type FitzExtractor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

// NewFitzExtractor creates a MuPDF backed extractor
func NewFitzExtractor(logger domain.Logger) *FitzExtractor {
	return &FitzExtractor{
		logger:      logger,
		pageTimeout: 90 * time.Second,
	}
}

// Extract opens the PDF at path and returns the text of its non-empty pages
// joined by a single space.
func (p *FitzExtractor) Extract(ctx context.Context, path string) (string, error) {
	type pageResult struct {
		text string
		err  error
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	// A page still being decoded after a timeout owns the document until it returns.
	release := doc.Close
	defer func() {
		if release != nil {
			release()
		}
	}()
	abandon := func(ch <-chan pageResult) {
		release = nil
		go func() {
			<-ch
			doc.Close()
		}()
	}

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var res pageResult
		select {
		case res = <-resultCh:
		case <-ctx.Done():
			abandon(resultCh)
			return "", ctx.Err()
		case <-time.After(p.pageTimeout):
			abandon(resultCh)
			return "", fmt.Errorf("page %d: timeout after %v", pageNum+1, p.pageTimeout)
		}
		if res.err != nil {
			return "", fmt.Errorf("page %d: %w", pageNum+1, res.err)
		}
		pages = append(pages, res.text)
	}

	return joinPages(pages), nil
}

// joinPages concatenates page texts with a single space, skipping empty pages.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, page := range pages {
		if page == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(page)
	}
	return b.String()
}
