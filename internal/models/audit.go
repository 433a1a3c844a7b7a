package models

import "time"

// AuditEntry запись журнала аудита. После записи никогда не изменяется
// и не удаляется штатными операциями.
type AuditEntry struct {
	ID         int64     `db:"id" json:"id"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   int64     `db:"entity_id" json:"entity_id"`
	OldValues  *string   `db:"old_values" json:"old_values,omitempty"`
	NewValues  *string   `db:"new_values" json:"new_values,omitempty"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
	RequestID  *int64    `db:"request_id" json:"request_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
