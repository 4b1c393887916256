// Package grid is a host-side simulator for work-group grid dispatch.
//
// It decomposes an N-dimensional (N <= 3) iteration space into fixed-size
// work-groups, executes a user body once per group in a deterministic
// row-major order, and gives the body coordinate queries plus bounds-masked
// load/store against dense backing arrays. Global sizes need not be
// multiples of the group size: trailing groups are clipped, and transfers
// that reach past an array edge mark the overhang invalid instead of
// failing.
//
// The sequential driver is the reference oracle for validating
// accelerator-compiled kernels that use the same decomposition; the verify
// package runs that comparison against OCCA devices.
package grid
