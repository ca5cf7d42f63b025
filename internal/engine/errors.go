package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse indicates the AI response body was not valid JSON
// after code-fence stripping.
var ErrInvalidResponse = errors.New("invalid AI response format")

// Failure is the unified error for a failed product optimization. It
// carries the product id and wraps the original cause.
type Failure struct {
	ProductID string
	Err       error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("product optimization failed for %s: %v", f.ProductID, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
