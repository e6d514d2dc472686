// Package theme owns the process-wide active display theme.
//
// A single [Controller] is built at startup and passed to whatever needs to read
// or change the theme. It reconciles three sources on [Controller.Initialize]:
// an explicit preference (usually the remote profile's themePreference), the
// local cache, and the [models.DefaultTheme], in that order.
//
// Local state is authoritative for the session. [Controller.Toggle] applies the
// new theme locally and hands the remote profile update to a detached goroutine;
// a failed remote write is logged and never rolls back the local change.
package theme
