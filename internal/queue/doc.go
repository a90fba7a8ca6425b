// Package queue persists per-video extraction outcomes for batch runs in a
// SQLite database.
package queue
