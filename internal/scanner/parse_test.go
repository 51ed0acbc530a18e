package scanner

import (
	"reflect"
	"testing"

	"github.com/netsweep/netsweep/internal/model"
)

// TestParseSweep tests live-host extraction from sweep output.
func TestParseSweep(t *testing.T) {
	t.Parallel()

	t.Run("extracts hosts in reported order", func(t *testing.T) {
		t.Parallel()

		output := `Starting Nmap 7.95 ( https://nmap.org )
Nmap scan report for 10.0.0.2
Host is up (0.0012s latency).
Nmap scan report for 10.0.0.1
Host is up (0.0034s latency).
Nmap done: 254 IP addresses (2 hosts up) scanned in 3.21 seconds
`
		got := ParseSweep([]byte(output))
		want := []model.Host{"10.0.0.2", "10.0.0.1"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("count matches report lines", func(t *testing.T) {
		t.Parallel()

		output := `Nmap scan report for 10.0.0.1
Nmap scan report for 10.0.0.2
Nmap scan report for 10.0.0.3
`
		if got := ParseSweep([]byte(output)); len(got) != 3 {
			t.Errorf("got %d hosts, want 3", len(got))
		}
	})

	t.Run("duplicates are not removed", func(t *testing.T) {
		t.Parallel()

		output := "Nmap scan report for 10.0.0.1\nNmap scan report for 10.0.0.1\n"
		if got := ParseSweep([]byte(output)); len(got) != 2 {
			t.Errorf("got %d hosts, want 2", len(got))
		}
	})

	t.Run("handles resolved name with parenthesized address", func(t *testing.T) {
		t.Parallel()

		output := "Nmap scan report for router.lan (192.168.1.1)\n"
		got := ParseSweep([]byte(output))
		want := []model.Host{"192.168.1.1"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty output yields empty sequence", func(t *testing.T) {
		t.Parallel()

		if got := ParseSweep(nil); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}

// TestParseOpenPorts tests open-port record extraction from fast scan
// output, including the slash-joined port/protocol field.
func TestParseOpenPorts(t *testing.T) {
	t.Parallel()

	t.Run("parses records losslessly in order", func(t *testing.T) {
		t.Parallel()

		output := `Starting masscan 1.3.2
Discovered open port 80/tcp on 10.0.0.1
Discovered open port 53/udp on 10.0.0.1
Discovered open port 443/tcp on 10.0.0.1
`
		got := ParseOpenPorts([]byte(output))
		want := []model.PortRecord{
			{Host: "10.0.0.1", Protocol: model.ProtocolTCP, Port: 80},
			{Host: "10.0.0.1", Protocol: model.ProtocolUDP, Port: 53},
			{Host: "10.0.0.1", Protocol: model.ProtocolTCP, Port: 443},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("every record has valid protocol and port range", func(t *testing.T) {
		t.Parallel()

		output := `Discovered open port 1/tcp on 10.0.0.1
Discovered open port 65535/udp on 10.0.0.2
`
		for _, rec := range ParseOpenPorts([]byte(output)) {
			if !rec.Valid() {
				t.Errorf("invalid record parsed: %v", rec)
			}
		}
	})

	t.Run("drops malformed lines", func(t *testing.T) {
		t.Parallel()

		output := `Discovered open port 80/tcp on 10.0.0.1
Discovered open port not-a-port/tcp on 10.0.0.1
Discovered open port 81 on 10.0.0.1
Discovered open port 99999/tcp on 10.0.0.1
Discovered open port 22/sctp on 10.0.0.1
rate: 0.50-kpps, 99.99% done
`
		got := ParseOpenPorts([]byte(output))
		if len(got) != 1 {
			t.Fatalf("got %d records, want 1: %v", len(got), got)
		}
		if got[0].Port != 80 {
			t.Errorf("got port %d, want 80", got[0].Port)
		}
	})

	t.Run("empty output yields no records", func(t *testing.T) {
		t.Parallel()

		if got := ParseOpenPorts([]byte("")); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}
