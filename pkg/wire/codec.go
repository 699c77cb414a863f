package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Codec errors.
var (
	ErrTruncated          = errors.New("message truncated")
	ErrInvalidHeader      = errors.New("invalid message header")
	ErrInvalidTokenLength = errors.New("invalid token length")
	ErrInvalidOption      = errors.New("invalid option encoding")
	ErrEmptyPayload       = errors.New("payload marker without payload")
)

const (
	headerLen     = 4
	payloadMarker = 0xFF

	extByte   = 13
	extWord   = 14
	extWordLo = 269
)

// Marshal encodes m.
func Marshal(m *Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	size := headerLen + len(m.Token) + len(m.Payload) + 1
	for _, opt := range m.Options {
		size += 5 + len(opt.Value)
	}
	out := make([]byte, headerLen, size)
	out[0] = Version<<6 | byte(m.Type)<<4 | byte(len(m.Token))
	out[1] = byte(m.Code)
	binary.BigEndian.PutUint16(out[2:], m.MessageID)
	out = append(out, m.Token...)

	var prev OptionID
	for _, opt := range m.Options {
		if opt.ID < prev {
			return nil, fmt.Errorf("%w: option %d after %d", ErrInvalidOption, opt.ID, prev)
		}
		if len(opt.Value) > 0xFFFF+extWordLo {
			return nil, fmt.Errorf("%w: option %s too long", ErrInvalidOption, opt.ID)
		}
		out = appendOption(out, int(opt.ID-prev), opt.Value)
		prev = opt.ID
	}

	if len(m.Payload) > 0 {
		out = append(out, payloadMarker)
		out = append(out, m.Payload...)
	}
	return out, nil
}

func appendOption(out []byte, delta int, value []byte) []byte {
	dn, dext := nibble(delta)
	ln, lext := nibble(len(value))
	out = append(out, dn<<4|ln)
	out = append(out, dext...)
	out = append(out, lext...)
	return append(out, value...)
}

// nibble returns the 4-bit field and extension bytes for n.
func nibble(n int) (byte, []byte) {
	switch {
	case n < extByte:
		return byte(n), nil
	case n < extWordLo:
		return extByte, []byte{byte(n - extByte)}
	default:
		n -= extWordLo
		return extWord, []byte{byte(n >> 8), byte(n)}
	}
}

// Unmarshal decodes a datagram. Token, option values and payload alias data.
func Unmarshal(data []byte) (*Message, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if v := data[0] >> 6; v != Version {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidHeader, v)
	}

	tkl := int(data[0] & 0x0F)
	if tkl > MaxTokenLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTokenLength, tkl)
	}

	m := &Message{
		Type:      Type(data[0] >> 4 & 0x3),
		Code:      Code(data[1]),
		MessageID: binary.BigEndian.Uint16(data[2:]),
	}

	rest := data[headerLen:]
	if len(rest) < tkl {
		return nil, fmt.Errorf("%w: token", ErrTruncated)
	}
	if tkl > 0 {
		m.Token = rest[:tkl]
	}
	rest = rest[tkl:]

	var id OptionID
	for len(rest) > 0 {
		if rest[0] == payloadMarker {
			if len(rest) == 1 {
				return nil, ErrEmptyPayload
			}
			m.Payload = rest[1:]
			break
		}

		dn, ln := int(rest[0]>>4), int(rest[0]&0x0F)
		rest = rest[1:]

		delta, r, err := readExtended(dn, rest)
		if err != nil {
			return nil, fmt.Errorf("option delta: %w", err)
		}
		length, r, err := readExtended(ln, r)
		if err != nil {
			return nil, fmt.Errorf("option length: %w", err)
		}
		if len(r) < length {
			return nil, fmt.Errorf("%w: option value", ErrTruncated)
		}

		next := int(id) + delta
		if next > 0xFFFF {
			return nil, fmt.Errorf("%w: option number %d", ErrInvalidOption, next)
		}
		id = OptionID(next)
		m.Options = append(m.Options, Option{ID: id, Value: r[:length]})
		rest = r[length:]
	}

	if m.Code == Empty && (tkl > 0 || len(m.Options) > 0 || len(m.Payload) > 0) {
		return nil, fmt.Errorf("%w: empty message with content", ErrInvalidHeader)
	}
	return m, nil
}

func readExtended(n int, b []byte) (int, []byte, error) {
	switch n {
	case extByte:
		if len(b) < 1 {
			return 0, nil, ErrTruncated
		}
		return int(b[0]) + extByte, b[1:], nil
	case extWord:
		if len(b) < 2 {
			return 0, nil, ErrTruncated
		}
		return int(binary.BigEndian.Uint16(b)) + extWordLo, b[2:], nil
	case 15:
		return 0, nil, ErrInvalidOption
	default:
		return n, b, nil
	}
}
