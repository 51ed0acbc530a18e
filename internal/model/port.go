package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Protocol is the transport protocol of a discovered open port.
// Only two protocol classes are recognized; anything that is not TCP
// is treated as UDP when selecting scan switches downstream.
type Protocol string

// Supported transport protocols.
const (
	// ProtocolTCP is the TCP transport protocol.
	ProtocolTCP Protocol = "tcp"

	// ProtocolUDP is the UDP transport protocol.
	ProtocolUDP Protocol = "udp"
)

// String returns the protocol name in lowercase.
func (p Protocol) String() string {
	return string(p)
}

// ParseProtocol parses a protocol token from scanner output.
// It accepts "tcp" and "udp" in any case and returns an error for
// anything else, so malformed scanner lines surface during parsing
// instead of producing nonsense scan invocations later.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tcp":
		return ProtocolTCP, nil
	case "udp":
		return ProtocolUDP, nil
	default:
		return "", fmt.Errorf("unknown protocol %q", s)
	}
}

// PortRecord is a discovered open port on a host, tagged with its
// transport protocol. Each record is created exactly once by the port
// scan stage and consumed exactly once by the service enumeration stage.
type PortRecord struct {
	// Host is the address the port was discovered on.
	Host Host

	// Protocol is the transport protocol (tcp or udp).
	Protocol Protocol

	// Port is the port number in [1, 65535].
	Port int
}

// String returns the record in "host proto/port" form for logging.
func (r PortRecord) String() string {
	return r.Host.String() + " " + string(r.Protocol) + "/" + strconv.Itoa(r.Port)
}

// Valid reports whether the record has a parseable host, a recognized
// protocol, and a port number within the valid range.
func (r PortRecord) Valid() bool {
	if !r.Host.Valid() {
		return false
	}
	if r.Protocol != ProtocolTCP && r.Protocol != ProtocolUDP {
		return false
	}
	return r.Port >= 1 && r.Port <= 65535
}

// OutputFile returns the file name the service enumeration output for
// this record is written to within the host's directory. The name is
// parameterized by port number so records for the same host never
// collide.
func (r PortRecord) OutputFile() string {
	return "port-" + strconv.Itoa(r.Port)
}
