package hotrecharge

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeAPI                    = "API_ERROR"
	ErrCodeDuplicateReference     = "DUPLICATE_REFERENCE"
	ErrCodeDuplicateRequest       = "DUPLICATE_REQUEST"
	ErrCodeAuthorization          = "AUTHORIZATION_ERROR"
	ErrCodeInvalidContact         = "INVALID_CONTACT"
	ErrCodePrepaidPlatformFail    = "PREPAID_PLATFORM_FAIL"
	ErrCodeRechargeAmountLimit    = "RECHARGE_AMOUNT_LIMIT"
	ErrCodeInsufficientBalance    = "INSUFFICIENT_BALANCE"
	ErrCodeOutOfPinStock          = "OUT_OF_PIN_STOCK"
	ErrCodeWebService             = "WEB_SERVICE_ERROR"
	ErrCodeBalanceRequest         = "BALANCE_REQUEST_ERROR"
	ErrCodeTransactionNotFound    = "TRANSACTION_NOT_FOUND"
	ErrCodePendingZesaTransaction = "PENDING_ZESA_TRANSACTION"
	ErrCodeReferenceExceedLimit   = "REFERENCE_EXCEED_LIMIT"
	ErrCodeInvalidFormat          = "INVALID_FORMAT"
)

// Sentinel errors for every failure kind the provider reports. Callers branch
// with errors.Is; ErrAPI matches any classified reply failure via Unwrap
// chains on *APIError.
var (
	// ErrAPI is the base kind: any non-success reply maps to it when no
	// specific kind applies.
	ErrAPI = errors.New(ErrCodeAPI)

	// ErrDuplicateReference: an x-agent-reference was reused; a unique
	// reference is required per request.
	ErrDuplicateReference = errors.New(ErrCodeDuplicateReference)

	// ErrDuplicateRequest: the provider already received this request and is
	// processing it.
	ErrDuplicateRequest = errors.New(ErrCodeDuplicateRequest)

	// ErrAuthorization: access code or password is wrong, or login failed.
	ErrAuthorization = errors.New(ErrCodeAuthorization)

	// ErrInvalidContact: wrong number to recharge or invalid network.
	ErrInvalidContact = errors.New(ErrCodeInvalidContact)

	// ErrPrepaidPlatformFail: the network prepaid platform rejected the
	// recharge.
	ErrPrepaidPlatformFail = errors.New(ErrCodePrepaidPlatformFail)

	// ErrRechargeAmountLimit: amount outside the allowed range.
	ErrRechargeAmountLimit = errors.New(ErrCodeRechargeAmountLimit)

	// ErrInsufficientBalance: not enough agent wallet balance.
	ErrInsufficientBalance = errors.New(ErrCodeInsufficientBalance)

	// ErrOutOfPinStock: no voucher stock for the requested denomination.
	ErrOutOfPinStock = errors.New(ErrCodeOutOfPinStock)

	// ErrWebService: the recharge platform reported an internal failure.
	ErrWebService = errors.New(ErrCodeWebService)

	// ErrBalanceRequest: balance lookup failed, e.g. contract line or an
	// invalid number format.
	ErrBalanceRequest = errors.New(ErrCodeBalanceRequest)

	// ErrTransactionNotFound: original transaction could not be located,
	// possibly queried past the 30 day window.
	ErrTransactionNotFound = errors.New(ErrCodeTransactionNotFound)

	// ErrPendingZesaTransaction: the utility recharge is awaiting provider
	// verification; poll QueryZesaTransaction, a few times per minute at most.
	ErrPendingZesaTransaction = errors.New(ErrCodePendingZesaTransaction)

	// ErrReferenceExceedLimit: agent reference longer than MaxReferenceLength.
	ErrReferenceExceedLimit = errors.New(ErrCodeReferenceExceedLimit)

	// ErrInvalidFormat: a request parameter failed client-side validation
	// before any exchange took place.
	ErrInvalidFormat = errors.New(ErrCodeInvalidFormat)
)

// replyCodeErrors maps provider reply codes, plus the two HTTP status codes
// the provider uses without a body code, onto failure kinds. Built once;
// reply code 2 is success and never appears here.
var replyCodeErrors = map[int]error{
	4:                          ErrPendingZesaTransaction,
	206:                        ErrPrepaidPlatformFail,
	208:                        ErrInsufficientBalance,
	209:                        ErrOutOfPinStock,
	210:                        ErrPrepaidPlatformFail,
	216:                        ErrDuplicateRequest,
	217:                        ErrInvalidContact,
	218:                        ErrAuthorization,
	219:                        ErrWebService,
	220:                        ErrAuthorization,
	221:                        ErrBalanceRequest,
	222:                        ErrRechargeAmountLimit,
	800:                        ErrTransactionNotFound,
	http.StatusUnauthorized:    ErrAuthorization,
	http.StatusTooManyRequests: ErrDuplicateReference,
}

func mapReplyCodeToError(code int) error {
	if err, exists := replyCodeErrors[code]; exists {
		return err
	}

	return ErrAPI
}

// APIError is the error returned for every classified reply failure. It
// carries the provider's diagnostic message and the raw decoded reply;
// Unwrap exposes the sentinel kind so errors.Is works.
type APIError struct {
	Kind    error
	Message string
	Reply   *Reply
}

func newAPIError(kind error, message string, reply *Reply) *APIError {
	return &APIError{Kind: kind, Message: message, Reply: reply}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
}

// Unwrap yields the specific kind and the base ErrAPI, so callers can catch
// either a single failure kind or any classified failure generically.
func (e *APIError) Unwrap() []error {
	if errors.Is(e.Kind, ErrAPI) {
		return []error{e.Kind}
	}
	return []error{e.Kind, ErrAPI}
}
