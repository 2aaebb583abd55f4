// Package queue implements the review queue: ingestion of scored candidates,
// filtered and paginated listings and lookups by id or content id.
//
// Every item handed out is a copy; mutations go through Save, which the
// approval service calls while holding the item lock.
package queue
