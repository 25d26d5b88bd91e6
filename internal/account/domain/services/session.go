package services

import "errors"

// ErrNoSession возвращается, когда у вызывающего нет активной сессии.
var ErrNoSession = errors.New("no active session")
