package scanner

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/netsweep/netsweep/internal/model"
)

// Markers in the scanners' textual output. The formats are not
// versioned, so parsing stays deliberately narrow: a line either
// carries the marker and parses completely, or it is skipped.
const (
	// sweepMarker prefixes each live-host line in nmap -sn output.
	sweepMarker = "Nmap scan report for "

	// openPortMarker prefixes each open-port line in masscan output,
	// e.g. "Discovered open port 80/tcp on 10.0.0.1".
	openPortMarker = "Discovered open port "
)

// ParseSweep extracts live hosts from discovery sweep output.
// One host per report line, in the order the tool printed them.
// No deduplication: hosts reported twice appear twice.
//
// With DNS resolution disabled the report line carries a bare address,
// but the "name (address)" form is handled too so a stray resolving
// run still parses.
func ParseSweep(output []byte) []model.Host {
	var hosts []model.Host

	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), sweepMarker)
		if !ok {
			continue
		}

		// "name (address)" form: take the parenthesized address.
		if open := strings.LastIndexByte(rest, '('); open >= 0 {
			if close := strings.LastIndexByte(rest, ')'); close > open {
				rest = rest[open+1 : close]
			}
		}

		h := model.Host(strings.TrimSpace(rest))
		if h.Valid() {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// ParseOpenPorts extracts open-port records from fast port scan output.
// Each accepted line maps to exactly one record, order preserved.
//
// The scanner reports the port and protocol as one slash-joined field:
//
//	Discovered open port 80/tcp on 10.0.0.1
//
// so the field is split on the slash before the pieces are validated.
// Lines that do not parse completely are dropped.
func ParseOpenPorts(output []byte) []model.PortRecord {
	var records []model.PortRecord

	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		rest, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), openPortMarker)
		if !ok {
			continue
		}

		// rest is "80/tcp on 10.0.0.1".
		fields := strings.Fields(rest)
		if len(fields) != 3 || fields[1] != "on" {
			continue
		}

		portProto := strings.SplitN(fields[0], "/", 2)
		if len(portProto) != 2 {
			continue
		}

		port, err := strconv.Atoi(portProto[0])
		if err != nil {
			continue
		}
		proto, err := model.ParseProtocol(portProto[1])
		if err != nil {
			continue
		}

		rec := model.PortRecord{
			Host:     model.Host(fields[2]),
			Protocol: proto,
			Port:     port,
		}
		if rec.Valid() {
			records = append(records, rec)
		}
	}
	return records
}
