package wire

import "fmt"

// AddressType is the 1-byte discriminator prefixing each node_addresses
// entry.
type AddressType uint8

const (
	AddressTypeIPv4     AddressType = 1
	AddressTypeIPv6     AddressType = 2
	AddressTypeTorV2    AddressType = 3
	AddressTypeTorV3    AddressType = 4
	AddressTypeDNSName  AddressType = 5
)

// NodeAddress is one typed entry of a node_addresses list.
type NodeAddress interface {
	AddrType() AddressType
	Encode() []byte
}

// IPv4Address is a 4-byte IPv4 host plus a 2-byte port (6 bytes).
type IPv4Address struct {
	IP   [4]byte
	Port uint16
}

func (a IPv4Address) AddrType() AddressType { return AddressTypeIPv4 }

func (a IPv4Address) Encode() []byte {
	out := make([]byte, 0, 7)
	out = append(out, byte(AddressTypeIPv4))
	out = append(out, a.IP[:]...)
	out = append(out, EncodeU16(a.Port)...)
	return out
}

// IPv6Address is a 16-byte IPv6 host plus a 2-byte port (18 bytes).
type IPv6Address struct {
	IP   [16]byte
	Port uint16
}

func (a IPv6Address) AddrType() AddressType { return AddressTypeIPv6 }

func (a IPv6Address) Encode() []byte {
	out := make([]byte, 0, 19)
	out = append(out, byte(AddressTypeIPv6))
	out = append(out, a.IP[:]...)
	out = append(out, EncodeU16(a.Port)...)
	return out
}

// TorV2Address is a 10-byte onion service ID plus a 2-byte port (12 bytes).
type TorV2Address struct {
	Onion [10]byte
	Port  uint16
}

func (a TorV2Address) AddrType() AddressType { return AddressTypeTorV2 }

func (a TorV2Address) Encode() []byte {
	out := make([]byte, 0, 13)
	out = append(out, byte(AddressTypeTorV2))
	out = append(out, a.Onion[:]...)
	out = append(out, EncodeU16(a.Port)...)
	return out
}

// TorV3Address is a 35-byte onion service ID plus a 2-byte port (37 bytes).
type TorV3Address struct {
	Onion [35]byte
	Port  uint16
}

func (a TorV3Address) AddrType() AddressType { return AddressTypeTorV3 }

func (a TorV3Address) Encode() []byte {
	out := make([]byte, 0, 38)
	out = append(out, byte(AddressTypeTorV3))
	out = append(out, a.Onion[:]...)
	out = append(out, EncodeU16(a.Port)...)
	return out
}

// DNSAddress is a hostname that consumes the remainder of the inner
// node_addresses payload.
type DNSAddress struct {
	Hostname string
}

func (a DNSAddress) AddrType() AddressType { return AddressTypeDNSName }

func (a DNSAddress) Encode() []byte {
	out := make([]byte, 0, 1+len(a.Hostname))
	out = append(out, byte(AddressTypeDNSName))
	out = append(out, []byte(a.Hostname)...)
	return out
}

// DecodeNodeAddresses reads the outer u16_sized_bytes and parses its
// payload as a sequence of typed address entries. An unrecognized
// discriminator byte fails with ErrInvalidValue.
func DecodeNodeAddresses(b []byte) ([]NodeAddress, []byte, error) {
	payload, rem, err := DecodeSizedBytes(b)
	if err != nil {
		return nil, nil, err
	}

	var addrs []NodeAddress
	for len(payload) > 0 {
		discriminator := AddressType(payload[0])
		payload = payload[1:]

		switch discriminator {
		case AddressTypeIPv4:
			if len(payload) < 6 {
				return nil, nil, tooFew(6, len(payload))
			}
			var a IPv4Address
			copy(a.IP[:], payload[:4])
			a.Port, _, _ = DecodeU16(payload[4:6])
			payload = payload[6:]
			addrs = append(addrs, a)

		case AddressTypeIPv6:
			if len(payload) < 18 {
				return nil, nil, tooFew(18, len(payload))
			}
			var a IPv6Address
			copy(a.IP[:], payload[:16])
			a.Port, _, _ = DecodeU16(payload[16:18])
			payload = payload[18:]
			addrs = append(addrs, a)

		case AddressTypeTorV2:
			if len(payload) < 12 {
				return nil, nil, tooFew(12, len(payload))
			}
			var a TorV2Address
			copy(a.Onion[:], payload[:10])
			a.Port, _, _ = DecodeU16(payload[10:12])
			payload = payload[12:]
			addrs = append(addrs, a)

		case AddressTypeTorV3:
			if len(payload) < 37 {
				return nil, nil, tooFew(37, len(payload))
			}
			var a TorV3Address
			copy(a.Onion[:], payload[:35])
			a.Port, _, _ = DecodeU16(payload[35:37])
			payload = payload[37:]
			addrs = append(addrs, a)

		case AddressTypeDNSName:
			addrs = append(addrs, DNSAddress{Hostname: string(payload)})
			payload = nil

		default:
			return nil, nil, fmt.Errorf("%w: unknown node address type %d", ErrInvalidValue, discriminator)
		}
	}

	return addrs, rem, nil
}

// EncodeNodeAddresses serializes a node_addresses list back to its
// u16_sized_bytes wire form, preserving entry order.
func EncodeNodeAddresses(addrs []NodeAddress) []byte {
	var payload []byte
	for _, a := range addrs {
		payload = append(payload, a.Encode()...)
	}
	return EncodeSizedBytes(payload)
}
