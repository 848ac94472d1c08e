package catalog

import "errors"

// ErrInvalidCatalog marks reference data that failed validation.
var ErrInvalidCatalog = errors.New("invalid catalog")
