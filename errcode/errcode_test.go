package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestLookupStatusBranchesOnSign(t *testing.T) {
	cases := []struct {
		status int32
		want   Code
	}{
		{StatusSampleRateTooHigh, SampleRateTooHigh},
		{StatusIncompatibleState, IncompatibleState},
		{StatusNoAvailableRes, NoAvailableRes},
		{StatusResourceAllocated, ResourceAllocated},
		{StatusHandleError, HandleError},
		{StatusThreadPriorityRng, ThreadPriorityRng},
	}
	for _, tc := range cases {
		got, ok := LookupStatus(tc.status)
		if !ok || got != tc.want {
			t.Fatalf("LookupStatus(%d) = %q,%v want %q", tc.status, got, ok, tc.want)
		}
	}

	// 1004 is a warning; -1004 is an unrelated error. Magnitude alone must not match.
	if c, _ := LookupStatus(1004); c != LoopTimingError {
		t.Fatalf("1004 -> %q", c)
	}
	if c, _ := LookupStatus(-1004); c != NoAvailableRes {
		t.Fatalf("-1004 -> %q", c)
	}
	// 1029 exists only as -1029.
	if c, ok := LookupStatus(1029); ok || c != UnknownStatus {
		t.Fatalf("1029 -> %q,%v", c, ok)
	}
}

func TestLookupStatusUnknownNeverPanics(t *testing.T) {
	for _, s := range []int32{0, 1, -1, 7, -7, 2147483647, -2147483648, 1003, -1003} {
		c, ok := LookupStatus(s)
		if ok || c != UnknownStatus {
			t.Fatalf("LookupStatus(%d) = %q,%v", s, c, ok)
		}
	}
}

func TestOfAndWrapper(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should be OK")
	}
	if Of(InvalidChannel) != InvalidChannel {
		t.Fatal("bare code")
	}
	cause := errors.New("boom")
	e := &E{C: Other, Op: "read", Msg: "wrapped", Err: cause}
	if Of(fmt.Errorf("ctx: %w", e)) != Error {
		// Of does not unwrap; it only inspects the top-level value.
		t.Fatal("wrapped E should fall back to Error")
	}
	if Of(e) != Other || !errors.Is(e, cause) {
		t.Fatal("E should expose code and cause")
	}
	if e.Error() != "other: wrapped" {
		t.Fatalf("Error() = %q", e.Error())
	}
}

func TestIsStatus(t *testing.T) {
	if !IsStatus(HandleError) || !IsStatus(UnknownStatus) || !IsStatus(LoopTimingError) {
		t.Fatal("status codes not recognised")
	}
	if IsStatus(HALNotReady) || IsStatus(InvalidModule) {
		t.Fatal("local codes reported as status")
	}
}
