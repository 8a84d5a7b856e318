package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrInsufficientCredit = errors.New("insufficient credit")

	ErrUnauthorized = errors.New("unauthorized")

	ErrConflict = errors.New("resource conflict")
)

// Kind classifies an Error so the HTTP boundary can map it without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidAge
	KindInvalidCustomerData
	KindNotFound
	KindInsufficientCredit
	KindPersistenceConflict
	KindDuplicateRequest
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidAge:
		return "invalid_age"
	case KindInvalidCustomerData:
		return "invalid_customer_data"
	case KindNotFound:
		return "not_found"
	case KindInsufficientCredit:
		return "insufficient_credit"
	case KindPersistenceConflict:
		return "persistence_conflict"
	case KindDuplicateRequest:
		return "duplicate_request"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

const (
	CodeInternal               = "APZ000000"
	CodeUnauthorized           = "APZ000001"
	CodeInvalidCustomerRequest = "APZ000002"
	CodeInvalidRequest         = "APZ000004"
	CodeCustomerNotFound       = "APZ000005"
	CodeInvalidLoanRequest     = "APZ000006"
	CodeLoanNotFound           = "APZ000008"
	CodePersistenceConflict    = "APZ000009"
	CodeDuplicateRequest       = "APZ000010"
)

const (
	ReasonInternal               = "INTERNAL_ERROR"
	ReasonUnauthorized           = "UNAUTHORIZED"
	ReasonInvalidCustomerRequest = "INVALID_CUSTOMER_REQUEST"
	ReasonInvalidRequest         = "INVALID_REQUEST"
	ReasonCustomerNotFound       = "CUSTOMER_NOT_FOUND"
	ReasonInvalidLoanRequest     = "INVALID_LOAN_REQUEST"
	ReasonLoanNotFound           = "LOAN_NOT_FOUND"
	ReasonPersistenceConflict    = "PERSISTENCE_CONFLICT"
	ReasonDuplicateRequest       = "DUPLICATE_REQUEST"
)

type Error struct {
	Kind    Kind
	Code    string
	Reason  string
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("field '%s': %s", e.Field, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets callers keep matching on the package sentinels.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindValidation, KindInvalidAge, KindInvalidCustomerData:
		return target == ErrValidation
	case KindNotFound:
		return target == ErrNotFound
	case KindInsufficientCredit:
		return target == ErrInsufficientCredit
	case KindPersistenceConflict, KindDuplicateRequest:
		return target == ErrConflict
	case KindUnauthorized:
		return target == ErrUnauthorized
	default:
		return target == ErrInternalServer
	}
}

func NewValidationError(field, message string) error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeInvalidRequest,
		Reason:  ReasonInvalidRequest,
		Message: message,
		Field:   field,
	}
}

func InvalidAge(age, minAge, maxAge int) error {
	return &Error{
		Kind:    KindInvalidAge,
		Code:    CodeInvalidCustomerRequest,
		Reason:  ReasonInvalidCustomerRequest,
		Message: fmt.Sprintf("customer age %d is outside the accepted range %d-%d", age, minAge, maxAge),
		Field:   "dateOfBirth",
	}
}

func InvalidCustomerData(field, message string) error {
	return &Error{
		Kind:    KindInvalidCustomerData,
		Code:    CodeInvalidCustomerRequest,
		Reason:  ReasonInvalidCustomerRequest,
		Message: message,
		Field:   field,
	}
}

func CustomerNotFound(id uuid.UUID) error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeCustomerNotFound,
		Reason:  ReasonCustomerNotFound,
		Message: fmt.Sprintf("customer %s not found", id),
	}
}

func LoanNotFound(id uuid.UUID) error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeLoanNotFound,
		Reason:  ReasonLoanNotFound,
		Message: fmt.Sprintf("loan %s not found", id),
	}
}

func InsufficientCredit(requested, available decimal.Decimal) error {
	return &Error{
		Kind:    KindInsufficientCredit,
		Code:    CodeInvalidLoanRequest,
		Reason:  ReasonInvalidLoanRequest,
		Message: fmt.Sprintf("requested amount %s exceeds available credit line %s", requested.StringFixed(2), available.StringFixed(2)),
		Field:   "amount",
	}
}

func PersistenceConflict(message string, cause error) error {
	return &Error{
		Kind:    KindPersistenceConflict,
		Code:    CodePersistenceConflict,
		Reason:  ReasonPersistenceConflict,
		Message: message,
		Cause:   cause,
	}
}

func DuplicateRequest(key string) error {
	return &Error{
		Kind:    KindDuplicateRequest,
		Code:    CodeDuplicateRequest,
		Reason:  ReasonDuplicateRequest,
		Message: fmt.Sprintf("request with idempotency key '%s' was already processed or is in progress", key),
	}
}

func Unauthorized(message string) error {
	return &Error{
		Kind:    KindUnauthorized,
		Code:    CodeUnauthorized,
		Reason:  ReasonUnauthorized,
		Message: message,
	}
}

func Internal(message string, cause error) error {
	return &Error{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Reason:  ReasonInternal,
		Message: message,
		Cause:   cause,
	}
}

func WrapDatabaseError(cause error, message string) error {
	return fmt.Errorf("%w: %s: %w", ErrDatabase, message, cause)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the Kind of err, KindInternal when err carries none.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
