// Package reconcile computes image-set transitions for catalog products.
//
// Given a product's current persisted image list and a batch of uploaded
// files, BuildPlan decides what the new image list must be, which files must
// be physically uploaded, and which stored objects become unreferenced. The
// package is pure planning: it performs no I/O, which keeps the policy
// (capacity enforcement, overflow truncation, cover derivation) directly
// testable. Executing a plan against the object store lives in the catalog
// feature.
//
// # Overflow
//
// The image set never exceeds its capacity. Inputs beyond capacity are
// deterministically truncated and reported in Plan.Dropped; dropped uploads
// are never sent to the store, so they cannot leave orphaned objects.
//
// # Cover image
//
// The denormalized main-image URL is always the head of the final list (or
// empty). It is recomputed on every plan and never independently settable.
package reconcile
