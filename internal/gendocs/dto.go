package gendocs

import "time"

// DocumentResponse is the API shape of a stored document.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	ProfileID  string    `json:"profileId"`
	TemplateID string    `json:"templateId"`
	JobID      string    `json:"jobId,omitempty"`
	Version    int       `json:"version"`
	Label      string    `json:"label,omitempty"`
	IsDefault  bool      `json:"isDefault"`
	Format     string    `json:"format"`
	SizeBytes  int64     `json:"sizeBytes"`
	Checksum   string    `json:"checksum"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toDocumentResponse(doc GeneratedDocument) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		ProfileID:  doc.ProfileID,
		TemplateID: doc.TemplateID,
		JobID:      doc.JobID,
		Version:    doc.Version,
		Label:      doc.Label,
		IsDefault:  doc.IsDefault,
		Format:     doc.Format,
		SizeBytes:  doc.SizeBytes,
		Checksum:   doc.Checksum,
		CreatedAt:  doc.CreatedAt,
	}
}
