// Package trace extracts hop addresses from textual traceroute output.
package trace

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// skipLines is the number of leading lines ignored: the traceroute header
// and the first hop, usually the local gateway.
const skipLines = 2

// ipv4Regex matches dotted-decimal quads without checking octet ranges.
var ipv4Regex = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// Hop is a single extracted address with its 1-based position.
type Hop struct {
	IP   string `json:"ip" yaml:"ip"`
	Step int    `json:"step" yaml:"step"`
}

// ExtractIPs returns the first IPv4-looking token of every line after the
// skipped header lines, in line order.
func ExtractIPs(raw string) []string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) <= skipLines {
		log.Warn().Int("lines", len(lines)).Msg("Not enough data in traceroute output")
		return []string{}
	}

	ips := make([]string, 0, len(lines)-skipLines)
	for _, line := range lines[skipLines:] {
		if ip := ipv4Regex.FindString(line); ip != "" {
			ips = append(ips, ip)
		}
	}

	return ips
}

// Hops numbers the addresses starting at one.
func Hops(ips []string) []Hop {
	hops := make([]Hop, len(ips))
	for i, ip := range ips {
		hops[i] = Hop{Step: i + 1, IP: ip}
	}

	return hops
}
