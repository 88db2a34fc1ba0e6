package audit

import (
	"time"

	"b2redis/models"
)

// Query filters an audit search. Zero-value fields are not applied.
type Query struct {
	Action     string
	BucketName string
	Since      time.Time
	Until      time.Time
}

// Log is a durable record of every mutation made through the admin surface.
type Log interface {
	Record(event models.AuditEvent) error
	Search(q Query) ([]models.AuditEvent, error)
	Stats() (map[string]interface{}, error)
}
