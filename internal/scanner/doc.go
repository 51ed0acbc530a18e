// Package scanner wraps the external scan tools behind typed
// operations: the discovery sweep, per-host deep enumeration, the fast
// full-range port scan, and per-port service fingerprinting.
//
// Each component builds an argument list, runs the tool through a
// tool.Runner, and hands the textual output to a parser adapter. The
// tools' own failures (unreachable host, malformed range) are not
// inspected: whatever output was produced is parsed as-is and the
// pipeline moves on.
package scanner
