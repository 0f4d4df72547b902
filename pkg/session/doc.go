/*
Package session implements design management and persistence orchestration.

A Manager serializes every edit of a design id: it loads the design, hands an
editor.Editor to the caller, and saves the result while holding a per-id lock.
Locks are reference counted so idle ids do not accumulate. An optional
ports.DistributedLocker extends the guarantee across replicas sharing a store.
*/
package session
