// Package obix renders node state as compact oBIX XML.
//
// Rendering happens in three layers:
//   - Value formatting turns one reading into a short token ("23.5",
//     "true", "activity", "42"), bounded by a per-domain width.
//   - Fragments wrap a token in a leaf element such as
//     <real href="value" units="obix:units/celsius" val="23.5"/>.
//   - Objects wrap one or more child fragments in
//     <obj href="temp" is="iot:TemperatureSensor">...</obj>.
//
// Every element is produced from a literal template pair (the text before
// the value and the text after it). Segment lengths are always taken from
// the literal itself, so a template cannot disagree with its length.
//
// The set of shapes is fixed to the node's resources; this is not a
// general XML encoder.
package obix
