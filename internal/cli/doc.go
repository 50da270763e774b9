// Package cli implements the nodehealth command-line interface.
//
// The root command takes no flags or arguments. It loads the configuration,
// checks privileges, discovers what kind of node it is running on, and then
// hands the terminal to the dashboard until the operator quits:
//
//	nodehealth           - Run the dashboard
//	nodehealth version   - Print build information
//
// The config file path can be overridden with NODEHEALTH_CONFIG; every other
// setting can be overridden with a NODEHEALTH_ prefixed variable.
//
// # Wiring
//
// The health scheduler and the statistics loop are built before the
// dashboard starts, but the bridge that feeds the dashboard only exists once
// the Bubble Tea program does. A relay sits between them and drops anything
// published before the bridge is bound.
package cli
