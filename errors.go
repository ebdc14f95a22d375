package handbook

import (
	"errors"

	"github.com/alnah/go-handbook/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// After-each continuation misuse.
	ErrContinuationNotCalled   = pipeline.ErrContinuationNotCalled
	ErrContinuationCalledTwice = pipeline.ErrContinuationCalledTwice

	// Option validation errors.
	ErrInvalidSubMaxLevel = errors.New("invalid sub max level")
	ErrInvalidAlias       = errors.New("invalid alias pattern")
)
