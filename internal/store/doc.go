// Package store defines the contract of the authenticated document store.
//
// The store holds one [models.Profile] document per user. Clients read it whole
// with [Store.Fetch] and change it only through field-level [Mutation]s passed to
// [Store.Update]. ArrayUnion and ArrayRemove are applied atomically by the store
// itself, so two clients adding different favourites at the same time cannot
// lose each other's writes. Clients never overwrite the whole favourites array.
//
// Implementations:
//   - repositories.ProfileRepository : SQLite, used by the server and in local mode
//   - services.ProfileService : HTTP client for the server in internal/server
//
// [Identity] supplies the current authenticated user, or none.
package store
