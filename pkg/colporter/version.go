// Package colporter exposes project-level metadata for the colporter CLI.
package colporter

// Version is the current colporter release version.
const Version = "0.1.0"
