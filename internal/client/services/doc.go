// Package services maps each dashboard action to one admin API call.
//
// Services are thin: they build the request, decode the envelope and hand
// the result back. They do not catch or translate errors beyond wrapping, so
// the screen controller decides what the operator sees. Validation that the
// server would reject anyway (an empty status or feedback) is done here,
// before any request is sent.
//
// Actions that mutate server state and are easy to double-fire (feedback,
// WhatsApp sends, assignment updates) are wrapped in an InFlight guard;
// an overlapping call returns ErrInFlight without touching the network.
package services
