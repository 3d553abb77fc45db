package entity

import (
	"encoding/json"
	"time"
)

// AuditLog entrada del registro de auditoría (solo escritura).
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Details   json.RawMessage
	Timestamp time.Time
}
