// Package engine holds the registry of known sourceports: where each binary
// lives, the fixed arguments it always needs, and the capability flags that
// change how a command line is assembled for it.
package engine
