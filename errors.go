package ballast

import "errors"

var (
	ErrNilBody         = errors.New("ballast: nil body")
	ErrBodyRegistered  = errors.New("ballast: body already registered")
	ErrUnknownBody     = errors.New("ballast: body not registered")
	ErrInvalidSettings = errors.New("ballast: invalid settings")
)
