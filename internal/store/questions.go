package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhisek/exambank/internal/bank"
)

// QuestionRepo keeps the bank in the questions table, one row per record
// in bank order.
type QuestionRepo struct {
	db *sql.DB
}

var _ bank.Store = (*QuestionRepo)(nil)

// Load reads every question in position order. Rows failing validation
// are reported with their position.
func (r *QuestionRepo) Load(ctx context.Context) (*bank.Bank, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT position, type, topic, title, wording, choices,
		solution, explanation, status, counter, last FROM questions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var qs []*bank.Question
	for rows.Next() {
		var pos int
		var f bank.Fields
		if err := rows.Scan(&pos, &f.Type, &f.Topic, &f.Title, &f.Wording, &f.Choices,
			&f.Solution, &f.Explanation, &f.Status, &f.Counter, &f.Last); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q, err := bank.NewQuestion(f)
		if err != nil {
			return nil, &bank.RowError{Row: pos, Err: err}
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return bank.New(qs...), nil
}

// Save replaces the table's contents with b in a single transaction.
func (r *QuestionRepo) Save(ctx context.Context, b *bank.Bank) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO questions (position, type, topic, title, wording,
		choices, solution, explanation, status, counter, last)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range b.Questions() {
		f := q.Fields()
		if _, err := stmt.ExecContext(ctx, i+1, f.Type, f.Topic, f.Title, f.Wording, f.Choices,
			f.Solution, f.Explanation, f.Status, f.Counter, f.Last); err != nil {
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of stored questions.
func (r *QuestionRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
