package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/exambank/internal/exam"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

type examRepo struct {
	db *sql.DB
}

func (r *examRepo) Record(ctx context.Context, e *exam.Exam, exports []string, at time.Time) (string, error) {
	bp := exam.BuildBlueprint(e)
	raw, err := json.Marshal(bp)
	if err != nil {
		return "", fmt.Errorf("encode blueprint: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `INSERT INTO exams
		(id, name, total_questions, total_points, blueprint_json, exports, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, e.Name, bp.TotalQuestions, bp.TotalPoints, string(raw),
		strings.Join(exports, "\n"), at.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("save exam: %w", err)
	}
	return id, nil
}

const examColumns = `id, name, total_questions, total_points, blueprint_json, exports, created_at`

func (r *examRepo) List(ctx context.Context, opts QueryOpts) ([]ExamRecord, error) {
	where, args := whereRange(opts)
	rows, err := r.db.QueryContext(ctx, `SELECT `+examColumns+` FROM exams`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query exams: %w", err)
	}
	defer rows.Close()

	var out []ExamRecord
	for rows.Next() {
		rec, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *examRepo) Get(ctx context.Context, id string) (*ExamRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+examColumns+` FROM exams WHERE id = $1`, id)
	rec, err := scanExam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exam %s: %w", id, ErrNotFound)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExam(s scanner) (*ExamRecord, error) {
	var (
		rec     ExamRecord
		bpJSON  string
		exports string
		created int64
	)
	if err := s.Scan(&rec.ID, &rec.Name, &rec.TotalQuestions, &rec.TotalPoints,
		&bpJSON, &exports, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exam: %w", err)
	}
	if err := json.Unmarshal([]byte(bpJSON), &rec.Blueprint); err != nil {
		return nil, fmt.Errorf("decode blueprint of exam %s: %w", rec.ID, err)
	}
	if exports != "" {
		rec.Exports = strings.Split(exports, "\n")
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()
	return &rec, nil
}
