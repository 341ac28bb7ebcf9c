// Package store defines the Collection Store contract and builds the
// configured backend.
//
// A store reads and writes the whole item collection at once. There is no
// per-record access and no locking across a Load followed by a Persist;
// callers that need read-modify-write atomicity serialize it themselves.
//
// Three backends are available:
//
//	file    a pretty printed JSON array on local disk (default)
//	sqlite  an items table in a SQLite database
//	s3      a JSON object in an S3 compatible bucket
package store
