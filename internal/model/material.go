package model

import "time"

// StudyMaterial is an uploaded file attached to a booking. The binary payload
// lives in blob storage under ObjectKey; this record carries the metadata.
type StudyMaterial struct {
	ID          int64     `json:"id"`
	BookingID   int64     `json:"booking_id"`
	UploaderID  int64     `json:"uploader_id"`
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size"`
	Description string    `json:"description"`
	ObjectKey   string    `json:"object_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
