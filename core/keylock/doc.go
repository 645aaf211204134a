// Package keylock implements a per-key advisory lock.
//
// Every read-modify-write sequence on a single product's image set runs under
// the lock for that product's id, held across reconcile and persist. This
// prevents lost updates when concurrent requests touch the same product, and
// guarantees a concurrent delete observes either the pre-update or the
// post-update image set, never a mix.
package keylock
