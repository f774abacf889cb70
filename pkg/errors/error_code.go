package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Parse errors (100-199)
	ErrCodeInsufficientParameters ErrorCode = 100
	ErrCodeInvalidDirection       ErrorCode = 101
	ErrCodeInvalidLeverage        ErrorCode = 102
	ErrCodeInvalidQuantity        ErrorCode = 103

	// Validation errors (200-299)
	ErrCodeInvalidParameter     ErrorCode = 200
	ErrCodeInvalidConfiguration ErrorCode = 201
	ErrCodeInvalidIntent        ErrorCode = 202
	ErrCodeInvalidSymbol        ErrorCode = 203

	// Gateway errors (500-599)
	ErrCodeGateway            ErrorCode = 500
	ErrCodeGatewayBadResponse ErrorCode = 501

	// Execution errors (600-699)
	ErrCodeLeverageFailed         ErrorCode = 600
	ErrCodeEntryOrderFailed       ErrorCode = 601
	ErrCodeConditionalOrderFailed ErrorCode = 602
)
