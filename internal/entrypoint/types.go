// Package entrypoint resolves the configured target class and method into one
// of the two accepted entry point shapes. Resolution is a pure function of the
// class index: shapes are selected by static signature inspection against
// fixed descriptors, never by lookup-and-catch.
package entrypoint

import "slices"

// TypeDesc names a parameter or return type in a method signature.
type TypeDesc string

const (
	TypeInt         TypeDesc = "int"
	TypeVoid        TypeDesc = "void"
	TypeCharPtrPtr  TypeDesc = "CCharPointerPointer"
	TypeStringArray TypeDesc = "java.lang.String[]"
)

// Method describes one method of an indexed class.
type Method struct {
	Name string `yaml:"name"`
	// Params lists parameter types in declaration order.
	Params []TypeDesc `yaml:"params"`
	Return TypeDesc   `yaml:"return"`
	Public bool       `yaml:"public"`
	// EntryPointMarker is the exported-entry-point marker required on
	// native-shape methods.
	EntryPointMarker bool `yaml:"entry_point"`
}

// SignatureMatches reports whether the method has exactly the given
// parameter list.
func (m Method) SignatureMatches(params []TypeDesc) bool {
	return slices.Equal(m.Params, params)
}

// Class is one entry of the class index.
type Class struct {
	Name    string   `yaml:"class"`
	Methods []Method `yaml:"methods"`
}

// Method returns the declared method with the given name and exact parameter
// types, if any.
func (c *Class) Method(name string, params []TypeDesc) (Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name && m.SignatureMatches(params) {
			return m, true
		}
	}
	return Method{}, false
}

// Loader looks up class metadata by fully qualified name.
type Loader interface {
	Lookup(className string) (*Class, bool)
}

// Shape tags the two accepted entry point forms.
type Shape string

const (
	// NativeShape takes (int argc, CCharPointerPointer argv) and returns int.
	NativeShape Shape = "native"
	// WrappedJavaShape takes (String[] args), returns void, and is invoked
	// through the fixed wrapper adapter.
	WrappedJavaShape Shape = "wrapped-java"
)

// nativeParams is the fixed native entry signature.
var nativeParams = []TypeDesc{TypeInt, TypeCharPtrPtr}

// javaMainParams is the fixed wrapped Java main signature.
var javaMainParams = []TypeDesc{TypeStringArray}

// wrapper adapter: the fixed native-shape entry through which wrapped Java
// main methods are invoked in the generated image.
const WrapperClass = "imageforge.runtime.JavaMainWrapper"

var wrapperRun = Method{
	Name:             "run",
	Params:           []TypeDesc{TypeInt, TypeCharPtrPtr},
	Return:           TypeInt,
	Public:           true,
	EntryPointMarker: true,
}

// MainSupport captures the original Java-level main method for a wrapped
// descriptor so the generator can route the adapter to it.
type MainSupport struct {
	Class  string
	Method Method
}

// Descriptor is the resolved entry point. Once resolved it is immutable and
// satisfies exactly one shape.
type Descriptor struct {
	Class  string
	Method string
	Shape  Shape

	// Entry is the method the image actually enters: the target itself for
	// NativeShape, the wrapper adapter for WrappedJavaShape.
	Entry Method
	// EntryClass owns Entry.
	EntryClass string
	// Support is set only for WrappedJavaShape.
	Support *MainSupport
}

// Equal reports descriptor equality; two resolutions of identical inputs
// produce equal descriptors.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Class != other.Class || d.Method != other.Method || d.Shape != other.Shape ||
		d.EntryClass != other.EntryClass || !methodEqual(d.Entry, other.Entry) {
		return false
	}
	if (d.Support == nil) != (other.Support == nil) {
		return false
	}
	if d.Support != nil {
		return d.Support.Class == other.Support.Class && methodEqual(d.Support.Method, other.Support.Method)
	}
	return true
}

func methodEqual(a, b Method) bool {
	return a.Name == b.Name && a.Return == b.Return && a.Public == b.Public &&
		a.EntryPointMarker == b.EntryPointMarker && slices.Equal(a.Params, b.Params)
}
