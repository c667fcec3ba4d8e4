// Package partial builds a Go value one hole at a time.
//
// A Partial owns a freshly allocated value of a shape and a stack of open
// holes. Every Begin* pushes a frame, every End pops one and commits it into
// its parent, so an abandoned Partial never exposes a half-built value.
package partial

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/shape"
)

type frameKind int

const (
	frameRoot frameKind = iota
	frameField
	frameListItem
	frameMapKey
	frameMapValue
	frameSome
	framePointee
	frameInner
)

type frame struct {
	kind  frameKind
	shape *shape.Shape
	val   reflect.Value // addressable storage for this hole

	filled   bool
	fieldSet []bool // struct frames: one flag per shape field

	index int    // field position or list item index
	seg   string // JSON Pointer token, empty when the hole adds none
	named bool

	items  int           // list frames: committed item count
	key    reflect.Value // map frames: key committed by the last key hole
	hasKey bool
	ptr    reflect.Value // pointee frames: pointer to commit
}

// Partial is a value under construction.
type Partial struct {
	frames []frame
}

// New allocates a zero value of s and positions the cursor on it.
func New(s *shape.Shape) *Partial {
	root := reflect.New(s.Type).Elem()
	p := &Partial{frames: make([]frame, 0, 8)}
	p.frames = append(p.frames, newFrame(frameRoot, s, root))
	return p
}

func newFrame(kind frameKind, s *shape.Shape, v reflect.Value) frame {
	f := frame{kind: kind, shape: s, val: v}
	if s.Category == shape.Struct && !s.Transparent {
		f.fieldSet = make([]bool, len(s.Fields))
	}
	return f
}

func (p *Partial) top() *frame { return &p.frames[len(p.frames)-1] }

// Shape returns the shape of the current hole.
func (p *Partial) Shape() *shape.Shape { return p.top().shape }

// Depth reports how many holes are open below the root.
func (p *Partial) Depth() int { return len(p.frames) - 1 }

// Path renders the current hole as a JSON Pointer.
func (p *Partial) Path() string {
	var b strings.Builder
	for i := range p.frames {
		if p.frames[i].named {
			b.WriteByte('/')
			b.WriteString(issue.EscapeToken(p.frames[i].seg))
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func errorf(format string, args ...any) error {
	return issue.New(issue.CodeBuilder, format, args...)
}

func (p *Partial) expect(c shape.Category, op string) (*frame, error) {
	f := p.top()
	if f.shape.Category != c {
		return nil, errorf("%s: current hole is %s, not %s", op, f.shape.Describe(), c)
	}
	return f, nil
}

// ---- struct fields ----

// FieldIndex resolves a key against the current struct hole.
func (p *Partial) FieldIndex(name string) (int, bool) {
	f := p.top()
	if f.shape.Category != shape.Struct {
		return 0, false
	}
	return f.shape.FieldIndex(name)
}

// IsFieldSet reports whether field i of the current struct was written.
func (p *Partial) IsFieldSet(i int) bool {
	f := p.top()
	return i >= 0 && i < len(f.fieldSet) && f.fieldSet[i]
}

// BeginField opens field i of the current struct. Re-opening a written field
// discards its previous value.
func (p *Partial) BeginField(i int) error {
	f, err := p.expect(shape.Struct, "BeginField")
	if err != nil {
		return err
	}
	if f.shape.Transparent || i < 0 || i >= len(f.shape.Fields) {
		return errorf("BeginField: no field %d in %s", i, f.shape)
	}
	sf := f.shape.Fields[i]
	fv := f.val.Field(sf.Index)
	fv.Set(reflect.Zero(fv.Type()))
	f.fieldSet[i] = false
	child := newFrame(frameField, sf.Shape, fv)
	child.index, child.seg, child.named = i, sf.Name, true
	p.frames = append(p.frames, child)
	return nil
}

// SetFieldDefault fills field i of the current struct with its zero value and
// runs shape.Defaulter on it when implemented.
func (p *Partial) SetFieldDefault(i int) error {
	f, err := p.expect(shape.Struct, "SetFieldDefault")
	if err != nil {
		return err
	}
	if i < 0 || i >= len(f.fieldSet) {
		return errorf("SetFieldDefault: no field %d in %s", i, f.shape)
	}
	fv := f.val.Field(f.shape.Fields[i].Index)
	fv.Set(reflect.Zero(fv.Type()))
	if shape.IsDefaulter(fv.Type()) {
		fv.Addr().Interface().(shape.Defaulter).SetDefaults()
	}
	f.fieldSet[i] = true
	return nil
}

// BeginInner opens the single field of a transparent struct.
func (p *Partial) BeginInner() error {
	f := p.top()
	if !f.shape.Transparent {
		return errorf("BeginInner: %s is not transparent", f.shape)
	}
	if f.filled {
		return errorf("BeginInner: %s already filled", f.shape)
	}
	inner := f.shape.Fields[0]
	p.frames = append(p.frames, newFrame(frameInner, inner.Shape, f.val.Field(inner.Index)))
	return nil
}

// ---- lists ----

// BeginList switches the current list hole into list mode with an empty,
// non-nil collection.
func (p *Partial) BeginList() error {
	f, err := p.expect(shape.List, "BeginList")
	if err != nil {
		return err
	}
	if f.filled {
		return errorf("BeginList: %s already filled", f.shape)
	}
	f.val.Set(reflect.MakeSlice(f.shape.Type, 0, 0))
	f.filled = true
	return nil
}

// BeginListItem opens a new trailing item of the current list.
func (p *Partial) BeginListItem() error {
	f, err := p.expect(shape.List, "BeginListItem")
	if err != nil {
		return err
	}
	if !f.filled {
		return errorf("BeginListItem: list mode not started")
	}
	child := newFrame(frameListItem, f.shape.Elem, reflect.New(f.shape.Elem.Type).Elem())
	child.index, child.seg, child.named = f.items, strconv.Itoa(f.items), true
	p.frames = append(p.frames, child)
	return nil
}

// ---- maps ----

// BeginMap switches the current map hole into map mode with an empty,
// non-nil map.
func (p *Partial) BeginMap() error {
	f, err := p.expect(shape.Map, "BeginMap")
	if err != nil {
		return err
	}
	if f.filled {
		return errorf("BeginMap: %s already filled", f.shape)
	}
	f.val.Set(reflect.MakeMap(f.shape.Type))
	f.filled = true
	return nil
}

// BeginKey opens the key hole of the next entry.
func (p *Partial) BeginKey() error {
	f, err := p.expect(shape.Map, "BeginKey")
	if err != nil {
		return err
	}
	if !f.filled {
		return errorf("BeginKey: map mode not started")
	}
	if f.hasKey {
		return errorf("BeginKey: previous key has no value")
	}
	p.frames = append(p.frames, newFrame(frameMapKey, f.shape.Key, reflect.New(f.shape.Key.Type).Elem()))
	return nil
}

// BeginValue opens the value hole for the key committed last.
func (p *Partial) BeginValue() error {
	f, err := p.expect(shape.Map, "BeginValue")
	if err != nil {
		return err
	}
	if !f.hasKey {
		return errorf("BeginValue: no key committed")
	}
	child := newFrame(frameMapValue, f.shape.Elem, reflect.New(f.shape.Elem.Type).Elem())
	child.seg, child.named = fmt.Sprint(f.key.Interface()), true
	p.frames = append(p.frames, child)
	return nil
}

// HasKey reports whether the current map already holds the given key.
func (p *Partial) HasKey(k reflect.Value) bool {
	f := p.top()
	if f.shape.Category != shape.Map || !f.val.IsValid() || f.val.IsNil() {
		return false
	}
	return f.val.MapIndex(k).IsValid()
}

// PendingKey returns the committed key awaiting its value.
func (p *Partial) PendingKey() (reflect.Value, bool) {
	f := p.top()
	return f.key, f.hasKey
}

// ---- options and pointers ----

// BeginSome opens the payload of the current option, marking it present once
// the payload is committed.
func (p *Partial) BeginSome() error {
	f, err := p.expect(shape.Optional, "BeginSome")
	if err != nil {
		return err
	}
	if f.filled {
		return errorf("BeginSome: %s already filled", f.shape)
	}
	payload := f.val.Field(0)
	payload.Set(reflect.Zero(payload.Type()))
	p.frames = append(p.frames, newFrame(frameSome, f.shape.Elem, payload))
	return nil
}

// BeginPointer allocates the pointee of the current pointer hole and opens it.
func (p *Partial) BeginPointer() error {
	f, err := p.expect(shape.Pointer, "BeginPointer")
	if err != nil {
		return err
	}
	if f.filled {
		return errorf("BeginPointer: %s already filled", f.shape)
	}
	ptr := reflect.New(f.shape.Elem.Type)
	child := newFrame(framePointee, f.shape.Elem, ptr.Elem())
	child.ptr = ptr
	p.frames = append(p.frames, child)
	return nil
}

// ---- terminal assignment ----

// Set assigns v to the current hole. Values of a different type but the same
// kind (named string types, named integers) are converted.
func (p *Partial) Set(v reflect.Value) error {
	f := p.top()
	if f.filled {
		return errorf("Set: hole %s already filled", p.Path())
	}
	if f.shape.Category == shape.Struct && !f.shape.Transparent {
		return errorf("Set: cannot assign %s to struct %s", v.Type(), f.shape)
	}
	dst := f.val
	switch {
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case v.Kind() == dst.Kind() && v.Type().ConvertibleTo(dst.Type()):
		dst.Set(v.Convert(dst.Type()))
	default:
		return errorf("Set: cannot assign %s to %s", v.Type(), dst.Type())
	}
	f.filled = true
	return nil
}

// SetString assigns a string to the current hole.
func (p *Partial) SetString(s string) error { return p.Set(reflect.ValueOf(s)) }

// ParseFromString runs the current shape's parse hook on s and assigns the
// result.
func (p *Partial) ParseFromString(s string) error {
	f := p.top()
	if f.shape.Parse == nil {
		return errorf("ParseFromString: %s has no parse hook", f.shape)
	}
	v, err := f.shape.Parse(s)
	if err != nil {
		return err
	}
	return p.Set(v)
}

func (p *Partial) scalar(prim shape.Primitive, op string) (*frame, error) {
	f := p.top()
	if f.shape.Category != shape.Scalar || f.shape.Primitive != prim {
		return nil, errorf("%s: current hole is %s", op, f.shape.Describe())
	}
	if f.filled {
		return nil, errorf("%s: hole %s already filled", op, p.Path())
	}
	return f, nil
}

// SetUint stores an already range-checked unsigned integer.
func (p *Partial) SetUint(u uint64) error {
	f, err := p.scalar(shape.Unsigned, "SetUint")
	if err != nil {
		return err
	}
	f.val.SetUint(u)
	f.filled = true
	return nil
}

// SetInt stores an already range-checked signed integer.
func (p *Partial) SetInt(i int64) error {
	f, err := p.scalar(shape.Signed, "SetInt")
	if err != nil {
		return err
	}
	f.val.SetInt(i)
	f.filled = true
	return nil
}

// SetFloat stores a float; float32 holes round to float32 precision.
func (p *Partial) SetFloat(x float64) error {
	f, err := p.scalar(shape.Float, "SetFloat")
	if err != nil {
		return err
	}
	f.val.SetFloat(x)
	f.filled = true
	return nil
}

// SetBool stores a boolean.
func (p *Partial) SetBool(b bool) error {
	f, err := p.scalar(shape.Bool, "SetBool")
	if err != nil {
		return err
	}
	f.val.SetBool(b)
	f.filled = true
	return nil
}

// ---- closing ----

func (f *frame) resolved() bool {
	if f.filled {
		return true
	}
	switch f.shape.Category {
	case shape.Optional:
		return true
	case shape.Struct:
		if f.shape.Transparent {
			return false
		}
		for _, set := range f.fieldSet {
			if !set {
				return false
			}
		}
		return true
	}
	return false
}

// Unset lists the names of fields of the current struct that are not set.
func (p *Partial) Unset() []string {
	f := p.top()
	var out []string
	for i, set := range f.fieldSet {
		if !set {
			out = append(out, f.shape.Fields[i].Name)
		}
	}
	return out
}

// End closes the current hole and commits it into its parent.
func (p *Partial) End() error {
	n := len(p.frames)
	if n < 2 {
		return errorf("End: no open hole")
	}
	child := p.frames[n-1]
	if !child.resolved() {
		return errorf("End: hole %s left unfilled", p.Path())
	}
	p.frames = p.frames[:n-1]
	parent := p.top()
	switch child.kind {
	case frameField:
		parent.fieldSet[child.index] = true
	case frameInner:
		parent.filled = true
	case frameListItem:
		parent.val.Set(reflect.Append(parent.val, child.val))
		parent.items++
	case frameMapKey:
		parent.key, parent.hasKey = child.val, true
	case frameMapValue:
		parent.val.SetMapIndex(parent.key, child.val)
		parent.key, parent.hasKey = reflect.Value{}, false
	case frameSome:
		parent.val.Field(1).SetBool(true)
		parent.filled = true
	case framePointee:
		parent.val.Set(child.ptr)
		parent.filled = true
	}
	return nil
}

// Build returns the finished value. It fails while holes are open or the root
// is unresolved.
func (p *Partial) Build() (reflect.Value, error) {
	if len(p.frames) != 1 {
		return reflect.Value{}, errorf("Build: %d holes still open", len(p.frames)-1)
	}
	root := p.top()
	if !root.resolved() {
		return reflect.Value{}, errorf("Build: %s is not fully initialized", root.shape)
	}
	return root.val, nil
}
