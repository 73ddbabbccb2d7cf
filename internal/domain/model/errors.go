package model

import "errors"

// ErrUnknownSport is returned for sport values other than cricket and football.
var ErrUnknownSport = errors.New("unknown sport")
