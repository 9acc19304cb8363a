package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrRateFetch indicates that the exchange rate could not be fetched or parsed.
// The ledger keeps its previous rate when this is returned.
var ErrRateFetch = errors.New("exchange rate fetch failed")

// ErrRateRefreshInProgress is returned when a rate refresh is requested while
// another one for the same ledger has not completed yet.
var ErrRateRefreshInProgress = errors.New("exchange rate refresh already in progress")
