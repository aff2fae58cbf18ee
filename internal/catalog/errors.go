package catalog

import "errors"

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrUnknownEffect  = errors.New("unknown effect")
)
