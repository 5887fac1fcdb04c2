package workflow

import "errors"

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrNoActiveWorkflow = errors.New("no active workflow for this document type")
	ErrInvalidWorkflow  = errors.New("invalid workflow")
)
