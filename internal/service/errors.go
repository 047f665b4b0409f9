package service

import "errors"

// Domain errors. Handlers map these to HTTP status codes; services never
// swallow a failure path — anything not in this list is a storage error and
// is propagated wrapped.
var (
	ErrSessionAlreadyOpen   = errors.New("a cash session is already open")
	ErrNoActiveSession      = errors.New("no open cash session")
	ErrSessionNotFound      = errors.New("cash session not found")
	ErrSessionAlreadyClosed = errors.New("cash session is already closed")

	ErrEmptyCart           = errors.New("sale has no lines")
	ErrSaleNotFound        = errors.New("sale not found")
	ErrSaleAlreadyReversed = errors.New("sale is already reversed")

	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is inactive")
	ErrBarcodeTaken      = errors.New("barcode already registered")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrPurchaseNotPending = errors.New("purchase is not pending")

	ErrInvalidCredentials = errors.New("invalid username or password")
)
