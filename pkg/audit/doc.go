// Package audit records sign in decisions.
//
// A Recorder stamps events with an ID, the time and request metadata taken
// from the context (request ID, client IP) and hands them to a Writer.
// AsyncWriter batches events in the background for a BatchWriter such as
// the PostgreSQL and MongoDB stores or the slog writer.
package audit
