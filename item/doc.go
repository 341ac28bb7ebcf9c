// Package item defines the catalog domain: the Item record, the derived
// Aggregate, the tagged Error type shared by every layer, and the mutation
// gate that decides whether an inbound payload may reach storage.
//
// # Items
//
// An Item carries the four managed fields (id, name, category, price) plus
// any unknown fields the client sent. Unknown fields are not validated and are
// written back verbatim, so older readers and newer writers can share one
// collection without a schema migration.
//
// # Validation
//
// Validate applies ordered rules and reports only the first failure:
//
//  1. the payload must be a JSON object
//  2. name must be a non-empty string
//  3. category must be a non-empty string
//  4. price must be a number greater than or equal to zero
//
// The returned error is an *Error of KindValidation whose Field names the
// failing attribute, or is empty when the payload itself is not an object.
//
// # Errors
//
// Error carries an explicit Kind (validation, not found, io). Transports map
// kinds to their own status codes; nothing below the transport knows about
// HTTP.
package item
