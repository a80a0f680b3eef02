// Package cli turns command-line arguments into an app.Config. Flags are
// layered over the config file and ISCX_* environment variables, and usage
// errors carry their own exit code.
package cli
