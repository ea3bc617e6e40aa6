package arq

import "errors"

var (
	ErrShortFECFrame     = errors.New("fec frame shorter than header")
	ErrUnknownFECCommand = errors.New("unknown fec command")
	ErrFECFrameTooLarge  = errors.New("fec frame payload too large")
)
