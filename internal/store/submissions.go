package store

import (
	"context"
	"fmt"
)

// Submission is one persisted form save.
type Submission struct {
	ID      int64
	Form    string
	Payload string // canonical JSON of the bound values
	Seq     int64
}

// SaveSubmission appends a submission and returns its row id.
func (s *Store) SaveSubmission(ctx context.Context, form, payload string, seq int64) (int64, error) {
	if form == "" {
		return 0, fmt.Errorf("save submission: form name is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (form, payload, seq)
		VALUES (?, ?, ?)
	`, form, payload, seq)
	if err != nil {
		return 0, fmt.Errorf("save submission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save submission: %w", err)
	}
	return id, nil
}

// Submissions returns every submission of form ordered by (seq, id).
func (s *Store) Submissions(ctx context.Context, form string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form, payload, seq
		FROM submissions
		WHERE form = ?
		ORDER BY seq ASC, id ASC
	`, form)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Form, &sub.Payload, &sub.Seq); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// Count returns the total number of submissions across all forms.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}
