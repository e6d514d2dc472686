// Package repositories implements SQLite persistence for users, tokens and profile documents.
//
// Key Implementations:
//   - [UserRepository] : User account persistence with email-based lookups and soft deletes
//   - [TokenRepository] : Opaque bearer tokens mapping to a user
//   - [ProfileRepository] : The per-user JSON document; implements store.Store
//
// [ProfileRepository.Update] runs the whole read-modify-write of a document inside one
// IMMEDIATE transaction, which is what makes ArrayUnion and ArrayRemove atomic
// with respect to concurrent writers.
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
