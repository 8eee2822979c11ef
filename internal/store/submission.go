// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"cruisy/internal/models"
)

const submissionColumns = `id, slug, full_name, email, destination, selected_ids, channel, payload,
	status, archive_key, reviewed_by, review_note, created_at, reviewed_at`

// SubmissionStore handles ambassador go-live requests.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore creates a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	s := &models.Submission{}
	var ids string
	err := row.Scan(
		&s.ID, &s.Slug, &s.FullName, &s.Email, &s.Destination, &ids, &s.Channel, &s.Payload,
		&s.Status, &s.ArchiveKey, &s.ReviewedBy, &s.ReviewNote, &s.CreatedAt, &s.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	s.SelectedIDs = parseIDs(ids)
	return s, nil
}

// Create inserts a pending submission and fills in its id, status, and
// creation time.
func (s *SubmissionStore) Create(sub *models.Submission) error {
	err := s.db.QueryRow(`
		INSERT INTO submissions (slug, full_name, email, destination, selected_ids, channel, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at
	`, sub.Slug, sub.FullName, sub.Email, sub.Destination, formatIDs(sub.SelectedIDs), sub.Channel, sub.Payload,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// SetArchiveKey records where the submission text was archived.
func (s *SubmissionStore) SetArchiveKey(id uuid.UUID, key string) error {
	_, err := s.db.Exec(`UPDATE submissions SET archive_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("set archive key: %w", err)
	}
	return nil
}

// FindByID retrieves a submission. Returns nil if not found.
func (s *SubmissionStore) FindByID(id uuid.UUID) (*models.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRow(`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return sub, nil
}

// List returns submissions newest first. An empty status lists all.
func (s *SubmissionStore) List(status models.SubmissionStatus, limit int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.Query(`SELECT `+submissionColumns+` FROM submissions
			ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = s.db.Query(`SELECT `+submissionColumns+` FROM submissions
			WHERE status = $1 ORDER BY created_at DESC LIMIT $2`, status, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

// CountByStatus returns the number of submissions per status.
func (s *SubmissionStore) CountByStatus() (map[models.SubmissionStatus]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM submissions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SubmissionStatus]int)
	for rows.Next() {
		var st models.SubmissionStatus
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan submission count: %w", err)
		}
		counts[st] = n
	}
	return counts, rows.Err()
}

// Review moves a pending submission to approved or rejected. It returns
// false when the submission does not exist or was already reviewed.
func (s *SubmissionStore) Review(id uuid.UUID, status models.SubmissionStatus, reviewer uuid.UUID, note string) (bool, error) {
	if status != models.SubmissionApproved && status != models.SubmissionRejected {
		return false, fmt.Errorf("review submission: invalid status %q", status)
	}

	var notePtr *string
	if note = strings.TrimSpace(note); note != "" {
		notePtr = &note
	}

	res, err := s.db.Exec(`
		UPDATE submissions
		SET status = $1, reviewed_by = $2, review_note = $3, reviewed_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`, status, reviewer, notePtr, id)
	if err != nil {
		return false, fmt.Errorf("review submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("review submission rows: %w", err)
	}
	return n == 1, nil
}

// IsApproved reports whether slug has at least one approved submission.
func (s *SubmissionStore) IsApproved(slug string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM submissions WHERE slug = $1 AND status = 'approved')
	`, slug).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check approved: %w", err)
	}
	return ok, nil
}

// formatIDs encodes ids as a comma-separated list.
func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// parseIDs decodes a comma-separated id list, ignoring malformed entries.
func parseIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
