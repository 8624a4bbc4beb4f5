// Package models defines the client-side view of the admin API's data:
// leads, call statuses, filters, agent statistics and the operator profile.
//
// The server owns all of these records. The types here describe only what
// calldash reads or sends back.
package models
