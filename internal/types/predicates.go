package types

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return identical(x, y)
}

func identical(x, y Type) bool {
	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Pointer:
		if y, ok := y.(*Pointer); ok {
			return Identical(x.base, y.base)
		}
	case *Ref:
		if y, ok := y.(*Ref); ok {
			return Identical(x.base, y.base)
		}
	case *Func:
		if y, ok := y.(*Func); ok {
			return identicalFuncs(x, y)
		}
	}
	return false
}

func identicalFuncs(x, y *Func) bool {
	if len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i], y.params[i]) {
			return false
		}
	}
	if (x.result == nil) != (y.result == nil) {
		return false
	}
	if x.result != nil && !Identical(x.result, y.result) {
		return false
	}
	return true
}

// IsFunction reports whether t is a function type.
func IsFunction(t Type) bool {
	_, ok := t.(*Func)
	return ok
}

// IsFunctionPointer reports whether t is a pointer to a function type.
func IsFunctionPointer(t Type) bool {
	p, ok := t.(*Pointer)
	return ok && IsFunction(p.base)
}

// IsFunctionReference reports whether t is a reference to a function type.
func IsFunctionReference(t Type) bool {
	r, ok := t.(*Ref)
	return ok && IsFunction(r.base)
}

// IsFunctionKind reports whether t classifies as a function, function
// pointer, or function reference. Values of exactly these three shapes
// can carry a signable function address.
func IsFunctionKind(t Type) bool {
	return IsFunction(t) || IsFunctionPointer(t) || IsFunctionReference(t)
}
