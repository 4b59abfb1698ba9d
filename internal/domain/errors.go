package domain

import "errors"

var (
	// ErrConnection marks a failure to create a model session.
	ErrConnection = errors.New("model connection failed")
	// ErrTransport marks a failure while exchanging a message with the model.
	ErrTransport = errors.New("model transport failed")
	// ErrMalformedOrder marks a fenced order payload that could not be used.
	ErrMalformedOrder = errors.New("malformed order payload")

	ErrEmptyInput      = errors.New("empty input")
	ErrNotAccepting    = errors.New("session is not accepting input")
	ErrBusy            = errors.New("a reply is still pending")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)
