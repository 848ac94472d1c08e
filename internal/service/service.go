package service

import (
	"errors"

	"github.com/cropprospector/backend/internal/domain"
)

// HistoryRepository is re-exported from domain for convenience
type HistoryRepository = domain.HistoryRepository

// Sentinel errors surfaced to the delivery layer as client errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrBatchTooLarge = errors.New("batch too large")
)
