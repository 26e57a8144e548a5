package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var ErrEmptyCart = errors.New("empty_cart")

// NotFoundError reports which catalog entity a cart referenced that does
// not exist. Generation never returns a partial result alongside one.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// RequiredCodeError reports an operator missing a code that the cart's
// hardware terms make mandatory.
type RequiredCodeError struct {
	OperatorID snowflake.ID
	CodeType   string
}

func (e *RequiredCodeError) Error() string {
	return fmt.Sprintf("operator %s has no %s code configured", e.OperatorID, e.CodeType)
}

// IsNotFound reports whether err is a catalog miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRequiredCodeMissing reports whether err is a missing mandatory code.
func IsRequiredCodeMissing(err error) bool {
	var rc *RequiredCodeError
	return errors.As(err, &rc)
}
