package models

import "time"

// Attachment фотоматериал, приложенный к обращению.
type Attachment struct {
	ID        int64     `db:"id" json:"id"`
	RequestID int64     `db:"request_id" json:"request_id"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	MimeType  string    `db:"mime_type" json:"mime_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
