package services

import "errors"

// Validation errors surfaced to the visitor. They never abort the flow;
// the current step is kept so the action can be retried.
var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to order")
	ErrCheckoutBusy          = errors.New("an order is already being processed")
	ErrNoSlot                = errors.New("no delivery slot chosen")
	ErrUnknownSlot           = errors.New("delivery slot is not in today's schedule")
	ErrMissingCustomerFields = errors.New("name, phone and address are required")
	ErrWrongStep             = errors.New("action not allowed in the current checkout step")
)
