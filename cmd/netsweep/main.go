// Package main provides the entry point for the netsweep CLI.
//
// netsweep automates the repetitive opening moves of an authorized
// network assessment: host discovery, deep per-host enumeration, full
// TCP and UDP port scanning, and per-port service fingerprinting.
//
// Usage:
//
//	sudo netsweep scan -r 10.0.0.1-254 -i eth0 -o all
//
// See --help for all available options.
package main

// main is the entry point for netsweep.
func main() {
	Execute()
}
