// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Post represents a published code snippet on the board.
//
// The `json:"..."` tags tell Go's encoding/json package how to
// serialize/deserialize this struct to/from JSON. The field names match the
// snapshot format stored in the blob store, so a snapshot written by any
// client round-trips unchanged.
//
// ID is a small integer assigned monotonically by the board (1, 2, 3, ...).
// The counters default to zero when absent from a fetched snapshot, which is
// exactly what Go's zero value gives us on unmarshal.
type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Language    Language  `json:"language"`
	Code        string    `json:"code"`
	Tags        []string  `json:"tags"`
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	Downloads   int       `json:"downloads"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
