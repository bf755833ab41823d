/*
Package observability provides tools for monitoring the qiscreen engine.

It turns session and circuit-breaker lifecycle hooks into structured log lines and
Prometheus metrics, and combines several hook sets into one.
*/
package observability
