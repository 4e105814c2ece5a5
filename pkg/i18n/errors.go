package i18n

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToParseJSON     = errors.New("failed to parse JSON bundle")
	ErrFailedToParseYAML     = errors.New("failed to parse YAML bundle")
	ErrParsingCancelled      = errors.New("bundle parsing cancelled")
	ErrFailedToReadFile      = errors.New("failed to read bundle file")
	ErrUnsupportedFileFormat = errors.New("unsupported bundle file format")
	ErrInvalidBundle         = errors.New("invalid bundle structure")
	ErrInvalidLanguage       = errors.New("invalid language tag")
)

// ErrLanguageNotSupported indicates that no bundle is available for the requested language.
type ErrLanguageNotSupported struct {
	Lang string
}

func (e *ErrLanguageNotSupported) Error() string {
	return fmt.Sprintf("language not supported: %s", e.Lang)
}
