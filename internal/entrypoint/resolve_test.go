package entrypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

// mapLoader is a trivial in-memory Loader.
type mapLoader map[string]*Class

func (l mapLoader) Lookup(name string) (*Class, bool) {
	c, ok := l[name]
	return c, ok
}

func nativeMain(marker bool) Method {
	return Method{
		Name:             "main",
		Params:           []TypeDesc{TypeInt, TypeCharPtrPtr},
		Return:           TypeInt,
		Public:           true,
		EntryPointMarker: marker,
	}
}

func javaMain(public bool, ret TypeDesc) Method {
	return Method{
		Name:   "main",
		Params: []TypeDesc{TypeStringArray},
		Return: ret,
		Public: public,
	}
}

func TestResolveNativeShape(t *testing.T) {
	loader := mapLoader{"com.example.App": {Name: "com.example.App", Methods: []Method{nativeMain(true)}}}
	desc, err := Resolve(loader, "com.example.App", "main")
	require.NoError(t, err)
	assert.Equal(t, NativeShape, desc.Shape)
	assert.Equal(t, "com.example.App", desc.EntryClass)
	assert.Nil(t, desc.Support)
}

func TestResolveNativeShapeWithoutMarkerFails(t *testing.T) {
	loader := mapLoader{"com.example.App": {Name: "com.example.App", Methods: []Method{nativeMain(false)}}}
	_, err := Resolve(loader, "com.example.App", "main")
	require.Error(t, err)
	assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
}

func TestResolveWrappedJavaShape(t *testing.T) {
	loader := mapLoader{"com.example.App": {Name: "com.example.App", Methods: []Method{javaMain(true, TypeVoid)}}}
	desc, err := Resolve(loader, "com.example.App", "main")
	require.NoError(t, err)
	assert.Equal(t, WrappedJavaShape, desc.Shape)
	assert.Equal(t, WrapperClass, desc.EntryClass)
	require.NotNil(t, desc.Support)
	assert.Equal(t, "com.example.App", desc.Support.Class)
	// the effective entry is always native shaped
	assert.True(t, desc.Entry.SignatureMatches([]TypeDesc{TypeInt, TypeCharPtrPtr}))
	assert.Equal(t, TypeInt, desc.Entry.Return)
}

func TestResolveNonPublicJavaMainFails(t *testing.T) {
	loader := mapLoader{"com.example.App": {Name: "com.example.App", Methods: []Method{javaMain(false, TypeVoid)}}}
	_, err := Resolve(loader, "com.example.App", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public")
}

func TestResolveNonVoidJavaMainFails(t *testing.T) {
	loader := mapLoader{"com.example.App": {Name: "com.example.App", Methods: []Method{javaMain(true, TypeInt)}}}
	_, err := Resolve(loader, "com.example.App", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "return type void")
}

func TestResolveMissingMethodFails(t *testing.T) {
	loader := mapLoader{"com.example.App": {Name: "com.example.App"}}
	_, err := Resolve(loader, "com.example.App", "main")
	require.Error(t, err)
	be, ok := ferrors.AsBuildError(err)
	require.True(t, ok)
	assert.Contains(t, be.Messages()[0], "com.example.App.main")
}

func TestResolveMissingClassFails(t *testing.T) {
	_, err := Resolve(mapLoader{}, "com.example.Gone", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "com.example.Gone")
}

func TestResolvePrefersNativeShape(t *testing.T) {
	loader := mapLoader{"com.example.App": {
		Name:    "com.example.App",
		Methods: []Method{javaMain(true, TypeVoid), nativeMain(true)},
	}}
	desc, err := Resolve(loader, "com.example.App", "main")
	require.NoError(t, err)
	assert.Equal(t, NativeShape, desc.Shape)
}

func TestResolveIsIdempotent(t *testing.T) {
	loader := mapLoader{"com.example.App": {Name: "com.example.App", Methods: []Method{javaMain(true, TypeVoid)}}}
	first, err := Resolve(loader, "com.example.App", "main")
	require.NoError(t, err)
	second, err := Resolve(loader, "com.example.App", "main")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}
