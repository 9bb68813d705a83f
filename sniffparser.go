// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// sniffAddressPattern implements the address grammar from §6:
// "((fqdn)/)?(ip|[ipv6]):(port)".
var sniffAddressPattern = regexp.MustCompile(`^((?P<fqdn>[^/]+)/)?(?P<ip>[^:]+|\[[0-9a-fA-F:\.]+\]):(?P<port>\d+)$`)

// sniffResponseWire is the JSON shape of a sniff response (§6).
type sniffResponseWire struct {
	ClusterName string                       `json:"cluster_name"`
	Nodes       map[string]sniffNodeInfoWire `json:"nodes"`
}

// sniffNodeInfoWire is the JSON shape of one entry in
// [sniffResponseWire.Nodes].
type sniffNodeInfoWire struct {
	Name             string            `json:"name"`
	Roles            []string          `json:"roles"`
	Settings         map[string]string `json:"settings"`
	HTTP             *sniffHTTPWire    `json:"http"`
	Version          string            `json:"version"`
	IP               string            `json:"ip"`
	TransportAddress string            `json:"transport_address"`
}

// sniffHTTPWire carries the HTTP-layer addresses of one sniffed node.
type sniffHTTPWire struct {
	PublishAddress string   `json:"publish_address"`
	BoundAddress   []string `json:"bound_address"`
}

// ParseSniffResponse parses a sniff response body into a [Node] list
// per §6: nodes lacking an "http" block are filtered out,
// publish_address is preferred over the first bound_address entry, and
// forceTLS selects the https scheme for every parsed node. The "nodes"
// object is decoded into a map, so the order of the returned nodes is not
// defined.
func ParseSniffResponse(body []byte, forceTLS bool) ([]*Node, error) {
	var wire sniffResponseWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("ctransport: invalid sniff response: %w", err)
	}

	nodes := make([]*Node, 0, len(wire.Nodes))
	for id, info := range wire.Nodes {
		if info.HTTP == nil {
			continue
		}
		address := info.HTTP.PublishAddress
		if address == "" {
			if len(info.HTTP.BoundAddress) == 0 {
				continue
			}
			address = info.HTTP.BoundAddress[0]
		}

		baseURL, err := parseSniffAddress(address, forceTLS)
		if err != nil {
			continue
		}

		node := NewNode(baseURL)
		node.ID = id
		node.Name = info.Name
		node.Settings = info.Settings
		if node.Settings == nil {
			node.Settings = map[string]string{}
		}
		node.Features = map[string]bool{"http": true}
		for _, role := range info.Roles {
			switch role {
			case "master", "data", "ingest":
				node.Features[role] = true
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// parseSniffAddress applies the §6 address grammar, preferring the fqdn
// capture group over the ip capture group, and renders the result as a
// base URL under the scheme forceTLS selects.
func parseSniffAddress(address string, forceTLS bool) (string, error) {
	match := sniffAddressPattern.FindStringSubmatch(address)
	if match == nil {
		return "", fmt.Errorf("ctransport: malformed sniff address %q", address)
	}
	names := sniffAddressPattern.SubexpNames()
	groups := make(map[string]string, len(names))
	for i, name := range names {
		if name != "" && i < len(match) {
			groups[name] = match[i]
		}
	}

	host := groups["fqdn"]
	if host == "" {
		host = groups["ip"]
	}
	port := groups["port"]

	scheme := "http"
	if forceTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%s", scheme, host, port), nil
}
