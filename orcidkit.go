// Package orcidkit turns researcher records from the ORCID public registry
// into flat, predictable profiles.
package orcidkit

const (
	// AppName is used for XDG config and data directories.
	AppName = "orcidkit"
	// Version of the tools.
	Version = "0.1.0"
)
