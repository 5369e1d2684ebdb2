package importer

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindFetch       Kind = "fetch"
	KindParse       Kind = "parse"
	KindPersistence Kind = "persistence"
)

var (
	ErrNotConfigured = errors.New("feed URL is not configured")
	ErrNilBundle     = errors.New("bundle is nil")
)

// ImportError: ошибка операции импорта с указанием, на каком шаге она произошла.
type ImportError struct {
	Kind Kind
	Item string
	URL  string
	Err  error
}

func (e *ImportError) Error() string {
	msg := string(e.Kind) + " error"
	if e.Item != "" {
		msg += " for " + e.Item
	}
	if e.URL != "" {
		msg += fmt.Sprintf(" (%s)", e.URL)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ImportError) Unwrap() error { return e.Err }

func IsKind(err error, kind Kind) bool {
	var ie *ImportError
	return errors.As(err, &ie) && ie.Kind == kind
}

func fetchError(item, url string, err error) *ImportError {
	return &ImportError{Kind: KindFetch, Item: item, URL: url, Err: err}
}

func parseError(item, url string, err error) *ImportError {
	return &ImportError{Kind: KindParse, Item: item, URL: url, Err: err}
}

func persistenceError(item string, err error) *ImportError {
	return &ImportError{Kind: KindPersistence, Item: item, Err: err}
}
