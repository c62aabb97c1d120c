// Package modules contains all built-in lint modules.
// Import this package to register all modules via their init() functions.
// A module runs on a file only when the "rules" section resolved for the
// file's directory enables it.
package modules
