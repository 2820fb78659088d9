// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Bubble Tea chrome, headless -no-tui mode, YAML config files
// 0.2.0 - OpenSky live traffic, display floor filters, data labels
// 0.1.0 - Initial release: rotating sweep, simulated weather cells
