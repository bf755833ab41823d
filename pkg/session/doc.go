/*
Package session implements the in-memory session registry used by long-running adapters.

A screening.Session is not safe for concurrent use. The Manager serialises every operation on
a session ID through a per-ID mutex, reference counted so that locks of finished sessions are
garbage collected, and delegates storage to a Store (see pkg/adapters/memory).
*/
package session
