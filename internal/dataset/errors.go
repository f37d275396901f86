package dataset

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by the loaders and the record store.
// Compare with errors.Is().
var (
	// ErrEmptyDataset indicates that a source produced no valid country records.
	ErrEmptyDataset = constError("dataset contains no valid country records")

	// ErrUnsupportedFormat indicates a dataset file extension the loaders do not handle.
	ErrUnsupportedFormat = constError("unsupported dataset format")

	// ErrDuplicateCountry indicates that two records share the same country name.
	ErrDuplicateCountry = constError("duplicate country record")

	// ErrMissingColumn indicates a CSV header without one of the required columns.
	ErrMissingColumn = constError("missing required column")
)
