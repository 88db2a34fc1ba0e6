package models

import "time"

// Operation is one admin-API request, kept in the capped recent-activity log.
type Operation struct {
	RequestID string    `json:"request_id"`
	Method    string    `json:"method"`
	Route     string    `json:"route"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditEvent records one mutation of the credential store or bucket cache.
type AuditEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	BucketName string    `json:"bucket_name,omitempty"`
	Operator   string    `json:"operator,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Audit actions.
const (
	ActionSetAccount    = "set-account"
	ActionClearAccount  = "clear-account"
	ActionSaveBucket    = "save-bucket"
	ActionRemoveBucket  = "remove-bucket"
	ActionRefreshCache  = "refresh-cache"
	ActionInvalidateAll = "invalidate-all"
	ActionReauthorize   = "reauthorize"
)
