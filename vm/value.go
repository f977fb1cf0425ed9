package vm

import (
	"fmt"
	"math"
	"strconv"
)

type Value interface{ isValue() }

func NewValue() Value { return VNil{} }

type VBool bool

func (_ VBool) isValue()       {}
func (v VBool) String() string { return fmt.Sprintf("%t", v) }

type VNil struct{}

func (_ VNil) isValue()       {}
func (v VNil) String() string { return "nil" }

type VNum float64

func (_ VNum) isValue() {}

func (v VNum) String() string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// VObj is a non-owning handle to an Obj living in a Heap.
type VObj int

func (_ VObj) isValue()       {}
func (v VObj) String() string { return fmt.Sprintf("<obj #%d>", int(v)) }

func VSub(v, w Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		switch w := w.(type) {
		case VNum:
			return v - w, true
		}
	}
	return
}

func VMul(v, w Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		switch w := w.(type) {
		case VNum:
			return v * w, true
		}
	}
	return
}

func VDiv(v, w Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		switch w := w.(type) {
		case VNum:
			return v / w, true
		}
	}
	return
}

func VGreater(v, w Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		switch w := w.(type) {
		case VNum:
			return VBool(v > w), true
		}
	}
	return
}

func VLess(v, w Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		switch w := w.(type) {
		case VNum:
			return VBool(v < w), true
		}
	}
	return
}

func VNeg(v Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		return -v, true
	}
	return
}

// VTruthy reports the truthiness of v: only nil and false are falsey.
func VTruthy(v Value) VBool {
	switch v := v.(type) {
	case VBool:
		return v
	case VNil:
		return false
	default:
		return true
	}
}

// VEq compares v and w structurally. Objects are compared by payload through h.
func VEq(h *Heap, v, w Value) VBool {
	switch v := v.(type) {
	case VBool:
		switch w := w.(type) {
		case VBool:
			return v == w
		}
	case VNum:
		switch w := w.(type) {
		case VNum:
			return v == w
		}
	case VNil:
		_, ok := w.(VNil)
		return VBool(ok)
	case VObj:
		switch w := w.(type) {
		case VObj:
			return v == w || h.Get(v) == h.Get(w)
		}
	}
	return false
}

/* Heap objects */

type Obj interface {
	isObj()
	Text() string
}

type ObjStr string

func (_ ObjStr) isObj()         {}
func (o ObjStr) Text() string   { return string(o) }
func (o ObjStr) String() string { return string(o) }

type ObjIdent string

func (_ ObjIdent) isObj()         {}
func (o ObjIdent) Text() string   { return string(o) }
func (o ObjIdent) String() string { return string(o) }
