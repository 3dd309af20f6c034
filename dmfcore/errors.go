package dmfcore

import "errors"

var (
	ErrEmptyInput         = errors.New("dmf input is empty")
	ErrInitCanceled       = errors.New("dmf parse could not be initialized")
	ErrBackendUnavailable = errors.New("xml backend required for dmf is not available")
	ErrMalformedMarkup    = errors.New("unexpected dmf markup")
	ErrNotFound           = errors.New("dmf source not found or not readable")
	ErrShortRead          = errors.New("unexpected short read")
)
