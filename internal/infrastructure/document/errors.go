package document

import "errors"

var (
	ErrEmptyDocument    = errors.New("document is empty")
	ErrDocumentTooLarge = errors.New("document exceeds the size limit")
	ErrUnsupportedType  = errors.New("unsupported document type")
	ErrCorruptDocument  = errors.New("document cannot be read")
)
