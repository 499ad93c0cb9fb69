package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownMode      = errors.New("unknown retrieval mode")
	ErrEmbedding        = errors.New("embedding failure")
	ErrGeneration       = errors.New("generation failure")
	ErrIndex            = errors.New("vector index failure")
	ErrParse            = errors.New("malformed generator response")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
