package wire

import (
	"fmt"
	"slices"
)

// OptionID is a CoAP option number.
type OptionID uint16

// Registered options.
const (
	IfMatch       OptionID = 1
	URIHost       OptionID = 3
	ETag          OptionID = 4
	IfNoneMatch   OptionID = 5
	Observe       OptionID = 6
	URIPort       OptionID = 7
	LocationPath  OptionID = 8
	URIPath       OptionID = 11
	ContentFormat OptionID = 12
	MaxAge        OptionID = 14
	URIQuery      OptionID = 15
	Accept        OptionID = 17
	LocationQuery OptionID = 20
	Block2        OptionID = 23
	Block1        OptionID = 27
	Size2         OptionID = 28
	ProxyURI      OptionID = 35
	Size1         OptionID = 60
)

// Critical reports whether an unrecognized option of this number must
// cause the message to be rejected.
func (id OptionID) Critical() bool {
	return id&1 == 1
}

// String returns the option name.
func (id OptionID) String() string {
	switch id {
	case IfMatch:
		return "If-Match"
	case URIHost:
		return "Uri-Host"
	case ETag:
		return "ETag"
	case IfNoneMatch:
		return "If-None-Match"
	case Observe:
		return "Observe"
	case URIPort:
		return "Uri-Port"
	case LocationPath:
		return "Location-Path"
	case URIPath:
		return "Uri-Path"
	case ContentFormat:
		return "Content-Format"
	case MaxAge:
		return "Max-Age"
	case URIQuery:
		return "Uri-Query"
	case Accept:
		return "Accept"
	case LocationQuery:
		return "Location-Query"
	case Block2:
		return "Block2"
	case Block1:
		return "Block1"
	case Size2:
		return "Size2"
	case ProxyURI:
		return "Proxy-Uri"
	case Size1:
		return "Size1"
	default:
		return fmt.Sprintf("Option(%d)", uint16(id))
	}
}

// Known reports whether the node understands the option.
func (id OptionID) Known() bool {
	switch id {
	case IfMatch, URIHost, ETag, IfNoneMatch, Observe, URIPort, LocationPath,
		URIPath, ContentFormat, MaxAge, URIQuery, Accept, LocationQuery,
		Block2, Block1, Size2, ProxyURI, Size1:
		return true
	}
	return false
}

// MediaType is a Content-Format identifier.
type MediaType uint16

const (
	TextPlain      MediaType = 0
	LinkFormat     MediaType = 40
	AppXML         MediaType = 41
	AppOctetStream MediaType = 42
	AppJSON        MediaType = 50
)

// String returns the media type name.
func (t MediaType) String() string {
	switch t {
	case TextPlain:
		return "text/plain"
	case LinkFormat:
		return "application/link-format"
	case AppXML:
		return "application/xml"
	case AppOctetStream:
		return "application/octet-stream"
	case AppJSON:
		return "application/json"
	default:
		return fmt.Sprintf("MediaType(%d)", uint16(t))
	}
}

// Option is one option instance.
type Option struct {
	ID    OptionID
	Value []byte
}

// Options is an option list kept in ascending ID order. Repeated options
// keep their insertion order.
type Options []Option

// Add inserts an option after any existing options with the same ID.
func (o Options) Add(id OptionID, value []byte) Options {
	i, _ := slices.BinarySearchFunc(o, id+1, func(opt Option, target OptionID) int {
		return int(opt.ID) - int(target)
	})
	return slices.Insert(o, i, Option{ID: id, Value: value})
}

// Set replaces all options with ID by a single one.
func (o Options) Set(id OptionID, value []byte) Options {
	return o.Del(id).Add(id, value)
}

// Del removes all options with ID.
func (o Options) Del(id OptionID) Options {
	return slices.DeleteFunc(o, func(opt Option) bool { return opt.ID == id })
}

// Get returns the value of the first option with ID.
func (o Options) Get(id OptionID) ([]byte, bool) {
	for _, opt := range o {
		if opt.ID == id {
			return opt.Value, true
		}
	}
	return nil, false
}

// Has reports whether an option with ID is present.
func (o Options) Has(id OptionID) bool {
	_, ok := o.Get(id)
	return ok
}

// Strings returns the values of all options with ID as strings.
func (o Options) Strings(id OptionID) []string {
	var out []string
	for _, opt := range o {
		if opt.ID == id {
			out = append(out, string(opt.Value))
		}
	}
	return out
}

// Uint returns the first option with ID decoded as an unsigned integer.
// Values longer than four bytes are not integers and report false.
func (o Options) Uint(id OptionID) (uint32, bool) {
	v, ok := o.Get(id)
	if !ok || len(v) > 4 {
		return 0, false
	}
	return decodeUint(v), true
}

// SetUint replaces all options with ID by one integer option.
func (o Options) SetUint(id OptionID, v uint32) Options {
	return o.Set(id, EncodeUint(v))
}

// EncodeUint returns the shortest big-endian encoding of v.
func EncodeUint(v uint32) []byte {
	switch {
	case v == 0:
		return nil
	case v < 1<<8:
		return []byte{byte(v)}
	case v < 1<<16:
		return []byte{byte(v >> 8), byte(v)}
	case v < 1<<24:
		return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
	default:
		return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	}
}

func decodeUint(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}
