package model

import "strings"

// WellKnownCore is the resource discovery path (RFC 6690).
const WellKnownCore = ".well-known/core"

// LinkFormat renders the resource table in CoRE Link Format.
func LinkFormat(rs []Resource) []byte {
	var b strings.Builder
	for i, r := range rs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("</")
		b.WriteString(r.Path)
		b.WriteString(">;title=\"")
		b.WriteString(r.Title)
		b.WriteString("\";rt=\"")
		b.WriteString(r.Type)
		b.WriteByte('"')
		if r.Observable {
			b.WriteString(";obs")
		}
	}
	return []byte(b.String())
}
