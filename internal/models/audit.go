package models

import "time"

// AuditLog records one successful admin mutation.
type AuditLog struct {
	ID        string    `json:"id,omitempty"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	At        time.Time `json:"at"`
}
