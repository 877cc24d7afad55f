package facs

// Sentinel error message formats, wrapped with github.com/pkg/errors at call
// sites for stack context.
const (
	FileNotFoundError        = "could not open %s: %s"
	UnrecognizedKeywordError = "%s is not a recognized value for %s"
	MissingFieldError        = "%s is missing required field %q"
	ZeroAreaLocationError    = "location %d (category %s) has zero area"
	NoEligibleHospitalError  = "no hospital with area > %.1f sqm exists"
	UnknownCategoryError     = "building category %q is not registered"
	InvalidProbabilityError  = "invalid probability for %s: %f"
	InvalidAgeError          = "age %d is out of range [0,%d]"
	NegativeParameterError   = "%s must be non-negative, got %f"
	UnsortedAgeTableError    = "age table for %s is not sorted or has duplicate ages"
	SeedingFailedWarning     = "could not seed infection after %d attempts, skipping"
	StochasticDowngradeWarn  = "deterministic mode requested with %d workers, downgrading to stochastic"
	BadCSVRowError           = "%s line %d: %s"
)
