package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter      ErrorCode = 100
	ErrCodeInvalidConfiguration  ErrorCode = 101
	ErrCodeInvalidPeriod         ErrorCode = 102
	ErrCodeEmptyPeriod           ErrorCode = 103
	ErrCodeInvalidStrategyConfig ErrorCode = 104
	ErrCodeInvalidTransform      ErrorCode = 105
	ErrCodeInvalidTickSeries     ErrorCode = 106
	ErrCodeInvalidFrequency      ErrorCode = 107
	ErrCodeMissingParameter      ErrorCode = 108

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeDatasetNotFound       ErrorCode = 203
	ErrCodeDataWriteFailed       ErrorCode = 204
	ErrCodeDataParseFailed       ErrorCode = 205

	// Version errors (400-499)
	ErrCodeVersionMismatch ErrorCode = 400

	// Backtest errors (600-699)
	ErrCodeEmptyInput             ErrorCode = 600
	ErrCodeLengthMismatch         ErrorCode = 601
	ErrCodeBacktestConfigError    ErrorCode = 602
	ErrCodeBacktestNoDatasource   ErrorCode = 603
	ErrCodeBacktestNotInitialized ErrorCode = 604
)

// IsInputError reports whether err carries a validation code, i.e. the caller
// supplied something the engine cannot run with.
func IsInputError(err error) bool {
	code := GetCode(err)

	return code >= 100 && code < 200
}
