package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type EvaluateRequest struct {
	JobTitle      string `json:"job_title" validate:"required"`
	CVDocumentID  string `json:"cv_document_id" validate:"required,uuid"`
	JobDocumentID string `json:"job_document_id" validate:"required,uuid"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Result       *EvaluationReport `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}

type SimilarCandidate struct {
	EvaluationID string  `json:"evaluation_id"`
	JobTitle     string  `json:"job_title"`
	Decision     string  `json:"decision"`
	OverallMean  float64 `json:"overall_mean"`
	Similarity   float32 `json:"similarity"`
}

type SimilarCandidatesResponse struct {
	EvaluationID string             `json:"evaluation_id"`
	Candidates   []SimilarCandidate `json:"candidates"`
}
