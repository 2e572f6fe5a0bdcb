package services

import "fmt"

// ExtractionError aborts a whole document's structured extraction. There is
// no partial-document output: one failed section fails the document.
type ExtractionError struct {
	ContentType string
	Section     string
	Err         error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s section %q: %v", e.ContentType, e.Section, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ScoringError signals a missing or empty document input to the similarity
// scorer. Both a CV and a job description are mandatory.
type ScoringError struct {
	Reason string
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed: %s", e.Reason)
}

// FusionError signals a malformed similarity-score bundle handed to the
// fusion engine. This indicates an upstream contract violation and is not
// recoverable.
type FusionError struct {
	Reason string
}

func (e *FusionError) Error() string {
	return fmt.Sprintf("decision fusion failed: %s", e.Reason)
}
