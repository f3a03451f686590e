package domain

import "errors"

var (
	// ErrMalformedPayload indicates the inbound webhook body is not a JSON object.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrMissingOrderID indicates the webhook does not reference an order.
	ErrMissingOrderID = errors.New("missing order id")

	// ErrInvalidSignature indicates the webhook signature header did not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrFetchFailed indicates the order API returned a non-success response or was unreachable.
	ErrFetchFailed = errors.New("order fetch failed")

	// ErrInvalidValue indicates an admin-supplied counter value is not a non-negative integer.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidQuantity indicates a tracked line item quantity could not be read as an integer.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrStoreFailed indicates the counter store could not complete an operation.
	ErrStoreFailed = errors.New("counter store failed")
)
