package forecast

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Error types for forecast computations. Compare with errors.Is().
var (
	// ErrInvalidCountry indicates the requested country is not in the record store.
	ErrInvalidCountry = constError("country not found")

	// ErrInsufficientHistory indicates a series too short, or missing the years,
	// needed for the requested computation.
	ErrInsufficientHistory = constError("insufficient history")

	// ErrInvalidPeriod indicates a WMA window length outside [MinPeriod, MaxWeightedPeriod].
	ErrInvalidPeriod = constError("invalid moving average period")

	// ErrNoCandidates indicates a comparison filter called with an empty candidate pool.
	ErrNoCandidates = constError("no comparison candidates")

	// ErrNoChanges indicates the strategy selector received no rate-of-change values.
	ErrNoChanges = constError("no rate of change values")

	// ErrInvalidParams indicates a Params value that fails validation.
	ErrInvalidParams = constError("invalid forecast parameters")
)
