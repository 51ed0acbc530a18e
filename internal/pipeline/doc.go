// Package pipeline sequences the reconnaissance stages: discovery
// sweep, per-host deep enumeration, fast port scanning, and per-port
// service fingerprinting. Each stage is a Step that receives the
// accumulated run report and can extend it.
//
// Stages always run in order because each consumes the previous
// stage's output. Within the enumeration stages, hosts and port
// records are independent of each other, so those steps fan out over
// an errgroup with a configurable worker limit; the default of one
// worker preserves strictly sequential execution.
package pipeline
