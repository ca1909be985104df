// Package kv contains secure-store implementations of repository interfaces.
package kv

import "context"

// Storage keys.
const (
	KeyUsers        = "users"
	KeyCurrentUser  = "currentUser"
	KeyLastActivity = "lastActivity"
	KeySessionToken = "sessionToken"
	KeyApplications = "applications"
	KeyAppliedJobs  = "appliedJobs"
)

// Store is the subset of the secure store used by repositories.
// It is implemented by *securestore.Store.
type Store interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any) bool
	Remove(ctx context.Context, key string)
}
