package wire

import (
	"fmt"
	"strings"
)

// Version is the only supported protocol version.
const Version = 1

// MaxTokenLength is the longest token a message may carry.
const MaxTokenLength = 8

// Type is the message type.
type Type uint8

const (
	Confirmable     Type = 0
	NonConfirmable  Type = 1
	Acknowledgement Type = 2
	Reset           Type = 3
)

// String returns the short type name.
func (t Type) String() string {
	switch t {
	case Confirmable:
		return "CON"
	case NonConfirmable:
		return "NON"
	case Acknowledgement:
		return "ACK"
	case Reset:
		return "RST"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Code is a request method or response code in class.detail form.
type Code uint8

// Request methods.
const (
	Empty  Code = 0
	GET    Code = 1
	POST   Code = 2
	PUT    Code = 3
	DELETE Code = 4
)

// Response codes.
const (
	Created                 Code = 2<<5 | 1
	Deleted                 Code = 2<<5 | 2
	Valid                   Code = 2<<5 | 3
	Changed                 Code = 2<<5 | 4
	Content                 Code = 2<<5 | 5
	Continue                Code = 2<<5 | 31
	BadRequest              Code = 4<<5 | 0
	BadOption               Code = 4<<5 | 2
	NotFound                Code = 4<<5 | 4
	MethodNotAllowed        Code = 4<<5 | 5
	NotAcceptable           Code = 4<<5 | 6
	RequestEntityIncomplete Code = 4<<5 | 8
	RequestEntityTooLarge   Code = 4<<5 | 13
	UnsupportedFormat       Code = 4<<5 | 15
	InternalServerError     Code = 5<<5 | 0
	NotImplemented          Code = 5<<5 | 1
	ServiceUnavailable      Code = 5<<5 | 3
)

// Class returns the code class (0 request, 2 success, 4 client error,
// 5 server error).
func (c Code) Class() uint8 {
	return uint8(c) >> 5
}

// Detail returns the code detail.
func (c Code) Detail() uint8 {
	return uint8(c) & 0x1F
}

// IsRequest reports whether c is a request method.
func (c Code) IsRequest() bool {
	return c.Class() == 0 && c != Empty
}

// IsSuccess reports whether c is a 2.xx response.
func (c Code) IsSuccess() bool {
	return c.Class() == 2
}

// String returns the method name or the dotted response code.
func (c Code) String() string {
	switch c {
	case Empty:
		return "EMPTY"
	case GET:
		return "GET"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case DELETE:
		return "DELETE"
	}
	return fmt.Sprintf("%d.%02d", c.Class(), c.Detail())
}

// Message is a decoded CoAP message.
type Message struct {
	Type      Type
	Code      Code
	MessageID uint16
	Token     []byte
	Options   Options
	Payload   []byte
}

// Validate checks the header fields that the encoding constrains.
func (m *Message) Validate() error {
	if m.Type > Reset {
		return fmt.Errorf("%w: type %d", ErrInvalidHeader, m.Type)
	}
	if len(m.Token) > MaxTokenLength {
		return fmt.Errorf("%w: %d bytes", ErrInvalidTokenLength, len(m.Token))
	}
	if m.Code == Empty && (len(m.Token) > 0 || len(m.Options) > 0 || len(m.Payload) > 0) {
		return fmt.Errorf("%w: empty message with content", ErrInvalidHeader)
	}
	return nil
}

// Path returns the Uri-Path options joined with slashes.
func (m *Message) Path() string {
	return strings.Join(m.Options.Strings(URIPath), "/")
}

// SetPath replaces the Uri-Path options with the segments of path.
func (m *Message) SetPath(path string) {
	m.Options = m.Options.Del(URIPath)
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg != "" {
			m.Options = m.Options.Add(URIPath, []byte(seg))
		}
	}
}

// Queries returns the Uri-Query options.
func (m *Message) Queries() []string {
	return m.Options.Strings(URIQuery)
}

// Observe returns the Observe option value.
func (m *Message) Observe() (uint32, bool) {
	return m.Options.Uint(Observe)
}

// ContentFormat returns the Content-Format option value.
func (m *Message) ContentFormat() (MediaType, bool) {
	v, ok := m.Options.Uint(ContentFormat)
	return MediaType(v), ok
}

// Block2 returns the decoded Block2 option.
func (m *Message) Block2() (Block, bool, error) {
	v, ok := m.Options.Uint(Block2)
	if !ok {
		return Block{}, false, nil
	}
	b, err := ParseBlock(v)
	return b, true, err
}

// String returns a one-line summary for logs.
func (m *Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s mid=%d", m.Type, m.Code, m.MessageID)
	if len(m.Token) > 0 {
		fmt.Fprintf(&b, " token=%x", m.Token)
	}
	if p := m.Path(); p != "" {
		fmt.Fprintf(&b, " /%s", p)
	}
	if len(m.Payload) > 0 {
		fmt.Fprintf(&b, " payload=%d", len(m.Payload))
	}
	return b.String()
}
