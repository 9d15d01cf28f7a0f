package statsbomb

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrDataSource marks any fetch or decode failure against the external
	// source. There is no retry policy; the error propagates as-is.
	ErrDataSource = errors.New("data source failure")
)
