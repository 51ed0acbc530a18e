package model

import "net"

// Host is an IP address confirmed reachable during the discovery sweep.
// Hosts are immutable once discovered and are used verbatim as output
// directory names. Discovery performs no deduplication: if the sweep tool
// reports an address twice, both occurrences flow through the pipeline.
type Host string

// String returns the host's address string.
func (h Host) String() string {
	return string(h)
}

// Valid reports whether the host is a parseable IP address.
// Discovery only emits values extracted from sweep output, so invalid
// hosts indicate a parsing problem rather than a network condition.
func (h Host) Valid() bool {
	return net.ParseIP(string(h)) != nil
}
