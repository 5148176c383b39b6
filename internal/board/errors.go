package board

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrInvalidEndpoint = errors.New("invalid connection endpoint")
	ErrSelfLoop        = errors.New("connection source and target are the same card")
	ErrInvalidKind     = errors.New("invalid card kind")
	ErrIDCollision     = errors.New("id collision")
	ErrBusy            = errors.New("interaction in progress")
)
