package requests

import (
	"bowell-service/internal/app/models"
	"io"
)

// CreateRecording is decoded from a multipart form. Name and Examination come
// from the form values, the file part is attached by the controller.
type CreateRecording struct {
	Name        string    `schema:"name" validate:"required,max=255"`
	Examination int64     `schema:"examination" validate:"required,gt=0"`
	FileName    string    `schema:"-" validate:"required,wav_file"`
	ContentType string    `schema:"-"`
	Size        int64     `schema:"-" validate:"gt=0"`
	File        io.Reader `schema:"-" validate:"-"`
}

// UpdateRecording replaces the statistics present in the body.
type UpdateRecording struct {
	models.AnalysisResult
}
