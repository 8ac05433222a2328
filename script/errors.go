package script

import "errors"

// ErrSessionClosed is returned when executing scripts on a closed Session.
var ErrSessionClosed = errors.New("script session is closed")
