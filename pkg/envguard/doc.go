// Package envguard routes environment variable retrieval through a guarded
// path that shields a bounded protect-list of secret names. On the first read
// of a protected name the value is retained in encrypted in-process storage,
// the entry is removed from the process environment table (runtime table and
// the kernel-visible startup environ region), and every later read replays
// the retained copy. Out-of-band inspection of the environment no longer
// finds the secret while the process itself keeps working unchanged.
package envguard
