// Package models defines the domain entities for tickr.
//
// The package contains two categories of types:
//
// 1. Profile document types: the per-user record held by the document store
//   - [Profile] : the remote document, {themePreference, favourites}
//   - [Favourite] : a favourited stock symbol, identified solely by its symbol
//   - [Theme] : the display theme, one of [ThemeLight] or [ThemeDark]
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : user accounts, soft deleted via deleted_at
//
// Persistent entities expose their ID and timestamps through getters and check
// themselves with Validate before they are written.
package models
