package entrypoint

import (
	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

// Resolve looks up className.methodName in the loader and resolves it into
// exactly one of the two accepted shapes.
//
// Resolution order: first a native-shape method (int, CCharPointerPointer) ->
// int, which must carry the exported-entry-point marker; then a Java-level
// main method (String[]) -> void, which must be public and is wrapped behind
// the fixed adapter. Whatever branch succeeds, the effective entry signature
// is verified against the native shape once more before returning.
func Resolve(loader Loader, className, methodName string) (*Descriptor, error) {
	cls, ok := loader.Lookup(className)
	if !ok {
		return nil, ferrors.Configurationf("Main entry point class '%s' not found.", className)
	}

	var desc *Descriptor
	if m, ok := cls.Method(methodName, nativeParams); ok {
		if !m.EntryPointMarker {
			return nil, ferrors.Configurationf("Entry point must carry the exported entry point marker (method '%s.%s').",
				className, methodName)
		}
		desc = &Descriptor{
			Class:      className,
			Method:     methodName,
			Shape:      NativeShape,
			Entry:      m,
			EntryClass: className,
		}
	} else if jm, ok := cls.Method(methodName, javaMainParams); ok {
		if jm.Return != TypeVoid {
			return nil, ferrors.Configurationf("Java main method must have return type void. Change the return type of method '%s.%s(String[])'.",
				className, methodName)
		}
		if !jm.Public {
			return nil, ferrors.Configurationf("Method '%s.%s(String[])' is not accessible. Please make it 'public'.",
				className, methodName)
		}
		desc = &Descriptor{
			Class:      className,
			Method:     methodName,
			Shape:      WrappedJavaShape,
			Entry:      wrapperRun,
			EntryClass: WrapperClass,
			Support:    &MainSupport{Class: className, Method: jm},
		}
	} else {
		return nil, ferrors.Configuration(
			"Method '"+className+"."+methodName+"' is declared as the main entry point but it can not be found.",
			"Make sure that class '"+className+"' is on the classpath and that method '"+methodName+"(String[])' exists in that class.",
		)
	}

	if !desc.Entry.SignatureMatches(nativeParams) || desc.Entry.Return != TypeInt {
		return nil, ferrors.Configurationf("Main entry point must have signature 'int main(int argc, CCharPointerPointer argv)'.")
	}
	return desc, nil
}
