package domain

import "errors"

var (
	ErrNoRecords          = errors.New("no chat records")
	ErrUnrecoverableChunk = errors.New("single record exceeds token budget")
	ErrFirstChunkFailed   = errors.New("first chunk summary failed")
	ErrMergeFailed        = errors.New("merge summary failed")
	ErrUnsupportedBackend = errors.New("unsupported llm backend")
	ErrSummaryInFlight    = errors.New("summary already in progress")
	ErrInvalidCommand     = errors.New("invalid summary command")
	ErrUnsupportedStore   = errors.New("unsupported store driver")
)
