package genjobs

import (
	"time"

	"cvgen-backend/internal/projector"
)

// SubmitRequest is the body of a single generation submission.
type SubmitRequest struct {
	ProfileID  string                      `json:"profileId" binding:"required"`
	TemplateID string                      `json:"templateId" binding:"required"`
	Options    projector.GenerationOptions `json:"options"`
}

// BatchRequest submits several template/options variants against one profile.
type BatchRequest struct {
	ProfileID string         `json:"profileId" binding:"required"`
	Variants  []BatchVariant `json:"variants" binding:"required"`
}

type BatchVariant struct {
	TemplateID string                      `json:"templateId" binding:"required"`
	Options    projector.GenerationOptions `json:"options"`
}

// PreviewRequest asks for synchronously rendered markup.
type PreviewRequest struct {
	ProfileID  string                      `json:"profileId" binding:"required"`
	TemplateID string                      `json:"templateId" binding:"required"`
	Options    projector.GenerationOptions `json:"options"`
}

// JobResponse is the poll shape. Result is present only on completed,
// Error only on failed.
type JobResponse struct {
	JobID       string     `json:"jobId"`
	BatchID     string     `json:"batchId,omitempty"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	Result      *JobResult `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type JobResult struct {
	DocumentID  string `json:"documentId"`
	DownloadURL string `json:"downloadUrl"`
	Format      string `json:"format"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// BatchResponse acknowledges an accepted batch.
type BatchResponse struct {
	BatchID string   `json:"batchId"`
	JobIDs  []string `json:"jobs"`
}

func toJobResponse(job GenerationJob) JobResponse {
	resp := JobResponse{
		JobID:       job.ID,
		BatchID:     job.BatchID,
		Status:      job.Status,
		Progress:    job.Progress,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Status == StatusCompleted && job.DocumentID != "" {
		resp.Result = &JobResult{
			DocumentID:  job.DocumentID,
			DownloadURL: "/api/v1/cv/documents/" + job.DocumentID + "/download",
			Format:      job.Options.NormalizedFormat(),
		}
	}
	return resp
}
