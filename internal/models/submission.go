// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the review state of a go-live request.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission records one go-live request sent by an ambassador, kept so
// reviewers can approve or reject it regardless of which channel carried it.
type Submission struct {
	ID          uuid.UUID        `json:"id"`
	Slug        string           `json:"slug"`
	FullName    string           `json:"full_name"`
	Email       string           `json:"email"`
	Destination string           `json:"destination"`
	SelectedIDs []int64          `json:"selected_ids"`
	Channel     string           `json:"channel"`
	Payload     string           `json:"payload"` // composed plain-text block
	Status      SubmissionStatus `json:"status"`
	ArchiveKey  *string          `json:"archive_key,omitempty"`
	ReviewedBy  *uuid.UUID       `json:"reviewed_by,omitempty"`
	ReviewNote  *string          `json:"review_note,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
}

// IsPending returns true while the submission awaits a reviewer.
func (s *Submission) IsPending() bool {
	return s.Status == SubmissionPending
}

// ValidStatus reports whether s names a known submission status.
func ValidStatus(s string) bool {
	switch SubmissionStatus(s) {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}
