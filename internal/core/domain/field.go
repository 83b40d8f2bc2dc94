package domain

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// Identity is the identity-relevant view of a cacheable object.
//
// TrackedFields is the explicit declaration of everything the fingerprint depends on.
// Fields that are not returned here (loggers, handles, the payload itself, the run tag)
// never influence the fingerprint.
type Identity interface {
	// Name is the stable object name, usually derived from the implementing type.
	Name() string
	// RunTag is the cosmetic label used when a new cache folder is created.
	RunTag() string
	// TrackedFields returns the parameters and dependencies that determine identity.
	TrackedFields() []Field
}

// Param is a tracked parameter value with a canonical byte encoding.
//
// Canonical must return the same bytes for equal values on every platform and every run.
type Param interface {
	Canonical() ([]byte, error)
}

// FieldKind distinguishes parameters from dependencies.
type FieldKind string

const (
	// FieldParam is a plain tracked parameter.
	FieldParam FieldKind = "param"
	// FieldDependency is another cacheable object.
	FieldDependency FieldKind = "dependency"
)

// Field is a single tracked field.
type Field struct {
	Name  string
	Kind  FieldKind
	Param Param
	Dep   Identity
}

// Track declares a parameter field.
func Track(name string, p Param) Field {
	return Field{Name: name, Kind: FieldParam, Param: p}
}

// DependsOn declares a dependency field. The dependency contributes its own fingerprint.
func DependsOn(name string, dep Identity) Field {
	return Field{Name: name, Kind: FieldDependency, Dep: dep}
}

// String is a string parameter encoded as its raw bytes.
type String string

// Canonical implements Param.
func (s String) Canonical() ([]byte, error) { return []byte(s), nil }

// Int is an integer parameter encoded in base 10.
type Int int64

// Canonical implements Param.
func (i Int) Canonical() ([]byte, error) { return strconv.AppendInt(nil, int64(i), 10), nil }

// Float is a floating point parameter encoded with the shortest round-trip representation.
type Float float64

// Canonical implements Param.
func (f Float) Canonical() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(f), 'g', -1, 64), nil
}

// Bool is a boolean parameter.
type Bool bool

// Canonical implements Param.
func (b Bool) Canonical() ([]byte, error) { return strconv.AppendBool(nil, bool(b)), nil }

// Bytes is an opaque byte parameter.
type Bytes []byte

// Canonical implements Param.
func (b Bytes) Canonical() ([]byte, error) { return []byte(b), nil }

// Strings is an ordered list parameter encoded as a JSON array.
type Strings []string

// Canonical implements Param.
func (s Strings) Canonical() ([]byte, error) {
	if s == nil {
		s = Strings{}
	}
	return json.Marshal([]string(s))
}

// StringMap is a map parameter encoded as a JSON object with sorted keys.
type StringMap map[string]string

// Canonical implements Param.
func (m StringMap) Canonical() ([]byte, error) {
	if m == nil {
		m = StringMap{}
	}
	// encoding/json writes map keys in sorted order.
	return json.Marshal(map[string]string(m))
}

// Tag is embedded by cacheable types to carry the run tag.
type Tag struct {
	Tag string
}

// RunTag implements Identity.
func (t Tag) RunTag() string { return t.Tag }

// TypeName returns the name of v's type, dereferencing pointers.
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
