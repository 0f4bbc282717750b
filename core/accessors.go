package core

// AsBool returns obj as a boolean
func AsBool(obj Object) (bool, error) {
	if b, ok := obj.(Bool); ok {
		return bool(b), nil
	}
	return false, &TypeError{Want: ObjBool, Got: obj}
}

// AsInt returns obj as an integer
func AsInt(obj Object) (int64, error) {
	if i, ok := obj.(Int); ok {
		return int64(i), nil
	}
	return 0, &TypeError{Want: ObjInt, Got: obj}
}

// AsReal returns obj as a float, accepting both numeric variants
func AsReal(obj Object) (float64, error) {
	switch v := obj.(type) {
	case Int:
		return float64(v), nil
	case Real:
		return float64(v), nil
	}
	return 0, &TypeError{Want: ObjReal, Got: obj}
}

// AsName returns obj as a name without the leading slash
func AsName(obj Object) (string, error) {
	if n, ok := obj.(Name); ok {
		return string(n), nil
	}
	return "", &TypeError{Want: ObjName, Got: obj}
}

// AsString returns the raw bytes of a string object
func AsString(obj Object) ([]byte, error) {
	if s, ok := obj.(String); ok {
		return s.Value, nil
	}
	return nil, &TypeError{Want: ObjString, Got: obj}
}

// AsArray returns obj as an array
func AsArray(obj Object) (Array, error) {
	if a, ok := obj.(Array); ok {
		return a, nil
	}
	return nil, &TypeError{Want: ObjArray, Got: obj}
}

// AsDict returns obj as a dictionary. A stream yields its dictionary.
func AsDict(obj Object) (Dict, error) {
	switch v := obj.(type) {
	case Dict:
		return v, nil
	case *Stream:
		return v.Dict, nil
	}
	return nil, &TypeError{Want: ObjDict, Got: obj}
}

// AsStream returns obj as a stream
func AsStream(obj Object) (*Stream, error) {
	if s, ok := obj.(*Stream); ok && s != nil {
		return s, nil
	}
	return nil, &TypeError{Want: ObjStream, Got: obj}
}

// AsReference returns the id an indirect reference points at
func AsReference(obj Object) (ObjectID, error) {
	if r, ok := obj.(IndirectRef); ok {
		return r.ID(), nil
	}
	return ObjectID{}, &TypeError{Want: ObjIndirect, Got: obj}
}
