package assert

import (
	"io"
	"testing"

	"github.com/iov-one/tokenswap/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		want     error
		got      error
		wantFail bool
	}{
		"same root": {
			want: errors.ErrInsufficientFunds,
			got:  errors.ErrInsufficientFunds,
		},
		"nil against an error": {
			want:     nil,
			got:      errors.ErrInsufficientFunds,
			wantFail: true,
		},
		"both nil": {},
		"wrapped root": {
			want: errors.ErrInvalidAccountData,
			got:  errors.Wrap(errors.ErrInvalidAccountData, "escrow"),
		},
		"another root": {
			want:     errors.ErrInvalidAccountData,
			got:      errors.ErrOverflow,
			wantFail: true,
		},
		"stdlib error": {
			want:     errors.ErrDatabase,
			got:      io.EOF,
			wantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.want, tc.got)
			if failed := mock.failcalls > 0; failed != tc.wantFail {
				t.Fatalf("want failure %v, got %d failures", tc.wantFail, mock.failcalls)
			}
		})
	}
}

func TestCode(t *testing.T) {
	mock := &tmock{TB: t}
	Code(mock, 9, errors.Wrap(errors.ErrInsufficientFunds, "payer"))
	Code(mock, 1, io.EOF)
	if mock.failcalls != 0 {
		t.Fatalf("unexpected failures: %d", mock.failcalls)
	}
	Code(mock, 0, errors.ErrMissingSignature)
	if mock.failcalls != 1 {
		t.Fatal("code mismatch must fail")
	}
}

func TestNil(t *testing.T) {
	mock := &tmock{TB: t}
	var acc *struct{}
	var data []byte
	Nil(mock, nil)
	Nil(mock, acc)
	Nil(mock, data)
	if mock.failcalls != 0 {
		t.Fatalf("unexpected failures: %d", mock.failcalls)
	}
	Nil(mock, 0)
	Nil(mock, errors.ErrOverflow)
	if mock.failcalls != 2 {
		t.Fatalf("want two failures, got %d", mock.failcalls)
	}
}

func TestEqual(t *testing.T) {
	mock := &tmock{TB: t}
	Equal(mock, []byte{1, 2}, []byte{1, 2})
	Equal(mock, []byte{}, []byte(nil))
	Equal(mock, uint64(5), uint64(5))
	if mock.failcalls != 0 {
		t.Fatalf("unexpected failures: %d", mock.failcalls)
	}
	Equal(mock, []byte{1}, []byte{2})
	Equal(mock, 5, uint64(5))
	if mock.failcalls != 2 {
		t.Fatalf("want two failures, got %d", mock.failcalls)
	}
}

// tmock counts failures instead of stopping the test.
type tmock struct {
	testing.TB
	failcalls int
}

func (t *tmock) Fatal(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}
