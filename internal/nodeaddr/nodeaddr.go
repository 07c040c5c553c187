// Package nodeaddr parses the "<pubkey>@host:port" node descriptor
// strings accepted on the command line and handed to Peer.OpenConnection.
package nodeaddr

import (
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Node is an immutable descriptor of a remote Lightning node: its
// identity (a 33-byte compressed secp256k1 public key) and a reachable
// TCP address.
type Node struct {
	PublicKey [33]byte
	Host      string
	Port      uint16
}

// Parse reads a "<hex-pubkey>@<host>:<port>" node descriptor.
func Parse(s string) (Node, error) {
	atIdx := strings.IndexByte(s, '@')
	if atIdx < 0 {
		return Node{}, fmt.Errorf("nodeaddr: missing '@' in %q", s)
	}
	pubkeyHex, hostport := s[:atIdx], s[atIdx+1:]

	keyBytes, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return Node{}, fmt.Errorf("nodeaddr: invalid pubkey hex %q: %w", pubkeyHex, err)
	}
	if len(keyBytes) != 33 {
		return Node{}, fmt.Errorf("nodeaddr: pubkey must be 33 bytes, got %d", len(keyBytes))
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return Node{}, fmt.Errorf("nodeaddr: invalid host:port %q: %w", hostport, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Node{}, fmt.Errorf("nodeaddr: invalid port %q: %w", portStr, err)
	}

	var node Node
	copy(node.PublicKey[:], keyBytes)
	node.Host = host
	node.Port = uint16(port)
	return node, nil
}

// Address returns the "host:port" form suitable for net.Dial.
func (n Node) Address() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(int(n.Port)))
}

// PublicKeyHex returns the lowercase hex encoding of the node's public key.
func (n Node) PublicKeyHex() string {
	return hex.EncodeToString(n.PublicKey[:])
}

// String renders the canonical "pubkey@host:port" form.
func (n Node) String() string {
	return n.PublicKeyHex() + "@" + n.Address()
}
