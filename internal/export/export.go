// Package export renders exam blueprints to files.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/storage"
)

// Format is an export file format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatMarkdown, FormatPDF, FormatCSV, FormatJSON, FormatText}

type renderer struct {
	suffix      string
	contentType string
	write       func(w io.Writer, e *exam.Exam) error
}

var renderers = map[Format]renderer{
	FormatMarkdown: {"_Blueprint.md", "text/markdown; charset=utf-8", WriteMarkdown},
	FormatPDF:      {"_Blueprint.pdf", "application/pdf", WritePDF},
	FormatCSV:      {"_Questions.csv", "text/csv; charset=utf-8", WriteCSV},
	FormatJSON:     {"_Blueprint.json", "application/json", WriteJSON},
	FormatText:     {"_Blueprint.txt", "text/plain; charset=utf-8", WriteText},
}

// ParseFormat accepts a format name or its common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q (want markdown, pdf, csv, json or text)", s)
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := ParseFormat(part)
			if err != nil {
				return nil, err
			}
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// FileName returns the export file name for an exam in format f.
func FileName(examName string, f Format) string {
	return "Exam_" + examName + renderers[f].suffix
}

// Write renders e in format f.
func Write(w io.Writer, f Format, e *exam.Exam) error {
	r, ok := renderers[f]
	if !ok {
		return fmt.Errorf("unknown export format %q", f)
	}
	return r.write(w, e)
}

// Export renders e in every format and stores the files in sink. It
// returns the locations in format order.
func Export(ctx context.Context, sink storage.Sink, e *exam.Exam, formats []Format) ([]string, error) {
	var locs []string
	for _, f := range formats {
		var buf bytes.Buffer
		if err := Write(&buf, f, e); err != nil {
			return locs, fmt.Errorf("render %s: %w", f, err)
		}
		loc, err := sink.Put(ctx, FileName(e.Name, f), &buf, int64(buf.Len()), renderers[f].contentType)
		if err != nil {
			return locs, fmt.Errorf("store %s: %w", f, err)
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// FormatPoints prints a point value without trailing zeros.
func FormatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// ItemLine is the one-line form of a blueprint item.
func ItemLine(it exam.Item) string {
	return fmt.Sprintf("Q%02d - %s Pts - %s", it.Number, FormatPoints(it.Points), it.Text)
}
