/*
Package session tracks the logged_in/username pair for each visitor.

Sessions are addressed by an opaque ID (a UUID carried in a cookie or passed on
the command line). The Manager serialises access per ID with ref-counted local
locks and, when configured, a DistributedLocker so several replicas can share a
Redis-backed store.
*/
package session
