// Package scoped holds the fail-closed primitives of the tenant-scoped data
// gateway. Every store derives its tenant predicate from TenantID, writes
// pin their tenant id through Pin, and a missing ambient tenant always
// yields empty reads and rejected writes rather than unscoped access.
package scoped
