// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Pipeline error taxonomy. "No information found" retrieval answers are not
// errors and never appear here; they are content markers handled inside the
// retriever.
const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeAnalysisParseFailed ErrorCode = "ANALYSIS_PARSE_FAILED"
	ErrCodeGenerationFailed    ErrorCode = "GENERATION_FAILED"

	ErrCodeLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
	ErrCodeLLMTimeout      ErrorCode = "LLM_TIMEOUT"

	ErrCodeHTMLCleanFailed ErrorCode = "HTML_CLEAN_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationError creates a non-retryable input-validation error. Maps to
// a 4xx-equivalent at the boundary layer.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Work item input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisParseError creates a retryable error for an analyzer response
// with no parseable JSON object. Retryable because the model output is not
// deterministic across attempts.
func NewAnalysisParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisParseFailed,
		Message:   "Work item analysis returned no parseable details",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable terminal pipeline error.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Release note generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMServiceError creates a retryable text-generation service error.
func NewLLMServiceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMServiceError,
		Message:   "Text generation service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Text generation service timeout",
		Details:   "call exceeded the configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHTMLCleanError creates a non-retryable HTML cleaning error.
func NewHTMLCleanError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeHTMLCleanFailed,
		Message:   "HTML content could not be cleaned",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:    "VALIDATION_FAILED",
	ErrCodeAnalysisParseFailed: "ANALYSIS_PARSE_FAILED",
	ErrCodeGenerationFailed:    "GENERATION_FAILED",
	ErrCodeLLMServiceError:     "LLM_SERVICE_ERROR",
	ErrCodeLLMTimeout:          "LLM_TIMEOUT",
	ErrCodeHTMLCleanFailed:     "HTML_CLEAN_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeLLMServiceError,
		ErrCodeGenerationFailed:
		return 3

	case ErrCodeAnalysisParseFailed:
		return 2

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0 // Validation errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "LLM"):
		return "LLM"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "GENERATION"):
		return "PIPELINE"
	case strings.Contains(codeStr, "HTML"):
		return "UTILITY"
	default:
		return "OTHER"
	}
}
