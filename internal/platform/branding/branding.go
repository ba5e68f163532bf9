// Package branding centralizes user-facing product naming.
package branding

// AppName is the user-facing product name.
const AppName = "Anúncios"

// SimulatorName is the user-facing name of the mortgage simulator.
const SimulatorName = "Casa"
