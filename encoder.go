package encoders

import (
	"io"
)

var Version = "dev"

// DataEncoder serializes values of arbitrary types using strategies registered up front.
type DataEncoder interface {
	// Encode returns the encoded form of v.
	Encode(v any) (string, error)
	// EncodeTo writes the encoded form of v to w. Nothing reaches w unless encoding succeeded.
	EncodeTo(v any, w io.Writer) error
}
