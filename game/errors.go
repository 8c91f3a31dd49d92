package game

import "errors"

var (
	ErrIllegalMove         = errors.New("illegal move")
	ErrPromotionRequired   = errors.New("promotion kind required")
	ErrPromotionNotAllowed = errors.New("promotion kind not allowed")
	ErrBonusUnresolved     = errors.New("bonus turn not yet resolved")
	ErrNoMoveToResolve     = errors.New("no move awaiting bonus resolution")
	ErrGameAlreadyOver     = errors.New("game already over")
	ErrBadEvent            = errors.New("bad event")
)
