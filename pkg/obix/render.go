package obix

import (
	"errors"
	"fmt"

	"github.com/iotsys/iotsys-go/pkg/model"
)

// Rendering errors.
var (
	ErrUnknownShape = errors.New("obix: no template for resource")
	ErrBufferFull   = errors.New("obix: representation exceeds message buffer")
)

// AppendFragment appends one leaf element for a scalar of st.
func AppendFragment(dst []byte, st *model.State, kind model.Kind, color model.Color, mode Mode) ([]byte, error) {
	tmpl, ok := FragmentTemplate(kind, color, mode)
	if !ok {
		return dst, fmt.Errorf("%w: %s %s", ErrUnknownShape, kind, color)
	}

	start := len(dst)
	dst = append(dst, tmpl.Prefix...)

	dst, err := AppendValue(dst, st, kind, color)
	if err != nil {
		return dst[:start], err
	}
	return append(dst, tmpl.Suffix...), nil
}

// AppendObject appends the object representation for kind with its child
// fragments. The LED actuator carries one child per channel.
func AppendObject(dst []byte, st *model.State, kind model.Kind) ([]byte, error) {
	tmpl, ok := ObjectTemplate(kind)
	if !ok {
		return dst, fmt.Errorf("%w: object %s", ErrUnknownShape, kind)
	}

	start := len(dst)
	dst = append(dst, tmpl.Prefix...)

	colors := []model.Color{model.ColorNone}
	if kind == model.KindLED {
		colors = model.Colors
	}

	var err error
	for _, c := range colors {
		dst, err = AppendFragment(dst, st, kind, c, Child)
		if err != nil {
			return dst[:start], err
		}
	}

	return append(dst, tmpl.Suffix...), nil
}

// Render writes the complete representation of r into buf, replacing its
// contents. The result must fit r.Capacity.
func Render(buf []byte, st *model.State, r model.Resource) ([]byte, error) {
	var err error
	buf = buf[:0]
	if r.Object {
		buf, err = AppendObject(buf, st, r.Kind)
	} else {
		buf, err = AppendFragment(buf, st, r.Kind, r.Color, Standalone)
	}
	if err != nil {
		return buf[:0], fmt.Errorf("render %s: %w", r.Path, err)
	}
	if r.Capacity > 0 && len(buf) > r.Capacity {
		return buf[:0], fmt.Errorf("render %s: %w (%d > %d)", r.Path, ErrBufferFull, len(buf), r.Capacity)
	}
	return buf, nil
}
