// Package assert holds the handful of checks the program tests repeat the
// most: nil errors, equal state and matching root errors.
package assert

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/iov-one/tokenswap/errors"
)

// Tester is the part of testing.TB the checks need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil or a typed nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	// %+v prints the stack of a wrapped error.
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails the test if want and got differ. Raw account data is printed
// in hex.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if w, ok := want.([]byte); ok {
		if g, ok := got.([]byte); ok {
			if !bytes.Equal(w, g) {
				t.Fatalf("data differs\nwant %x\n got %x", w, g)
			}
			return
		}
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values differ\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// IsErr fails the test unless got is want or has want as its root.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if root, ok := want.(interface{ Is(error) bool }); ok && root.Is(got) {
		return
	}
	wantCode, _ := errors.ABCIInfo(want, false)
	gotCode, _ := errors.ABCIInfo(got, false)
	t.Fatalf("want %q (code %d), got %+v (code %d)", want, wantCode, got, gotCode)
}

// Code fails the test unless err is reported with the given result code.
func Code(t testing.TB, want uint32, err error) {
	t.Helper()
	if got, log := errors.ABCIInfo(err, false); got != want {
		t.Fatalf("want code %d, got %d: %s", want, got, log)
	}
}
