package types

// Device is an opaque placement token identifying where an array's storage
// lives. The engine never interprets it: it is only propagated to outputs and
// compared for equality, so any comparable value works (an int ordinal, a
// string, a handle provided by the storage layer, ...).
//
// A nil Device means "unplaced" and is compatible with every other device.
type Device any

// SameDevice reports whether two placement tokens are compatible: equal, or
// either one unplaced.
func SameDevice(a, b Device) bool {
	if a == nil || b == nil {
		return true
	}
	return a == b
}

// CommonDevice returns the placement for the output of an operation combining
// operands placed on a and b. Call it only after SameDevice returned true.
func CommonDevice(a, b Device) Device {
	if a != nil {
		return a
	}
	return b
}
