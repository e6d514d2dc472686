// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI shows the signed-in user's favourites in a filterable list:
//  1. [ListView] : Browse favourites; a adds, d removes the selection, r refreshes, t toggles the theme
//  2. [AddView] : Type "SYMBOL Name" and press enter to add
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Repository calls
// run as tea.Cmds and report back through small message types, so a slow store never blocks input.
//
// [Surface] is registered with the theme controller; toggling swaps its [Palette] and the
// model re-styles its components.
package ui
