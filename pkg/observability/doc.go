/*
Package observability turns planner and auth lifecycle events into logs and
Prometheus metrics.

Metrics live on their own registry so tests and multiple servers in one process
do not collide on the global one.
*/
package observability
