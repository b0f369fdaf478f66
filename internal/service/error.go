package service

const (
	ErrCodeCustomerLookup      = "CUSTOMER_LOOKUP_FAILED"
	ErrCodeVendFailed          = "VEND_FAILED"
	ErrCodeVendUnconfirmed     = "VEND_UNCONFIRMED"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeBalanceQuery        = "BALANCE_QUERY_FAILED"
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	if e.Cause == nil {
		return e.Code
	}
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
