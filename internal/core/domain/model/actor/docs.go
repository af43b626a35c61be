// Package actor models the users that invoke lifecycle operations.
// Role is a closed enum; which operations a role may run is decided by the
// access policy in the services package.
package actor
