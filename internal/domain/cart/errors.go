package cart

import "errors"

var (
	ErrSizeRequired        = errors.New("a size selection is required for this item")
	ErrTemperatureRequired = errors.New("a temperature selection is required for this item")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrUnknownModifier     = errors.New("modifier is not available for this item")
	ErrLineNotFound        = errors.New("cart line not found")
)
