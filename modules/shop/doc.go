// Package shop holds the tenant-owned business entities and their storage
// gateway. Every read is predicated on the ambient tenant and every write
// is pinned to it, including relation traversal: a vehicle list for a
// customer, or a line-item insert against a repair order, re-checks the
// tenant on the related table rather than trusting the parent lookup.
package shop
