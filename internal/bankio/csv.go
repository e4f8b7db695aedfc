package bankio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/exambank/internal/bank"
)

// Delimiter separates fields in bank files. Wording and explanations
// routinely contain commas, so semicolons are used instead.
const Delimiter = ';'

// Header is the column order written by WriteCSV.
var Header = []string{
	"type", "topic", "title", "wording", "choices",
	"solution", "explanation", "status", "counter", "last",
}

var requiredColumns = []string{"type", "topic", "title", "wording", "status"}

// ReadCSV parses a bank file. Columns are matched by header name, so
// their order may vary; counter and last are optional.
func ReadCSV(r io.Reader) (*bank.Bank, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty bank file: missing header")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("bank file missing %q column", c)
		}
	}

	b := bank.New()
	row := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &bank.RowError{Row: row, Err: err}
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		counter := 0
		if s := strings.TrimSpace(get("counter")); s != "" {
			counter, err = strconv.Atoi(s)
			if err != nil {
				return nil, &bank.RowError{Row: row, Err: &bank.ValidationError{
					Field: "counter", Value: s, Allowed: []string{"non-negative integer"},
				}}
			}
		}

		q, err := bank.NewQuestion(bank.Fields{
			Type:        get("type"),
			Topic:       get("topic"),
			Title:       get("title"),
			Wording:     get("wording"),
			Choices:     get("choices"),
			Solution:    get("solution"),
			Explanation: get("explanation"),
			Status:      get("status"),
			Counter:     counter,
			Last:        get("last"),
		})
		if err != nil {
			return nil, &bank.RowError{Row: row, Err: err}
		}
		b.Add(q)
	}
	return b, nil
}

// WriteCSV writes every question in b with a header row.
func WriteCSV(w io.Writer, b *bank.Bank) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, q := range b.Questions() {
		f := q.Fields()
		rec := []string{
			f.Type, f.Topic, f.Title, f.Wording, f.Choices,
			f.Solution, f.Explanation, f.Status, strconv.Itoa(f.Counter), f.Last,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write question %q: %w", f.Title, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
