package activity

import "b2redis/models"

// Recorder keeps a short, capped log of recent admin operations per subject.
type Recorder interface {
	Record(subject string, op models.Operation) error
	Recent(subject string) ([]models.Operation, error)
}
