// Package staff models tenant staff membership and provides the role-based
// authorization gate. A staff row grants access only within its own tenant;
// the guard verifies tenant context, principal identity, membership, active
// status and role in that order.
package staff
