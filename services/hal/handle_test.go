// services/hal/handle_test.go
package hal

import (
	"errors"
	"reflect"
	"testing"

	"frchal-go/errcode"
	"frchal-go/services/hal/internal/halerr"
	"frchal-go/services/hal/native/sim"
)

func TestHandleDomainsAreDistinctTypes(t *testing.T) {
	var a Handle[AnalogInputKind]
	var d Handle[DigitalKind]
	if reflect.TypeOf(a) == reflect.TypeOf(d) {
		t.Fatal("handles of different domains share a type")
	}
	if a.Valid() {
		t.Fatal("zero handle must be invalid")
	}
	if got := (Handle[NotifierKind]{raw: 0x10}).String(); got != "notifier(0x10)" {
		t.Fatalf("String = %q", got)
	}
}

func TestAnalogInputLifecycle(t *testing.T) {
	l := withSim(t, sim.Options{AnalogVolts: map[int32]float64{3: 1.25}})

	a, err := NewAnalogInput(3)
	if err != nil {
		t.Fatal(err)
	}
	h := a.Handle()
	if !h.Valid() || a.Channel() != 3 {
		t.Fatalf("handle %v channel %d", h, a.Channel())
	}
	if v, err := a.Voltage(); err != nil || v != 1.25 {
		t.Fatalf("voltage %v %v", v, err)
	}
	if err := a.SetAverageBits(2); err != nil {
		t.Fatal(err)
	}
	if b, _ := a.AverageBits(); b != 2 {
		t.Fatalf("bits = %d", b)
	}
	if err := a.SetAverageBits(12); errcode.Of(err) != errcode.ParamOutOfRange {
		t.Fatalf("bad bits err = %v", err)
	}
	raw, _ := a.Value()
	avg, _ := a.AverageValue()
	if avg != raw<<2 {
		t.Fatalf("avg %d raw %d", avg, raw)
	}

	a.Close()
	a.Close()
	if n := l.Frees(h.Raw()); n != 1 {
		t.Fatalf("freed %d times", n)
	}

	calls := l.Calls()
	if _, err := a.Voltage(); !errors.Is(err, halerr.ErrClosed) {
		t.Fatalf("use after close err = %v", err)
	}
	if l.Calls() != calls {
		t.Fatal("closed resource reached the native library")
	}
}

func TestInvalidChannelFailsLocally(t *testing.T) {
	l := withSim(t, sim.Options{})
	calls := l.Calls()

	for _, ch := range []int32{99, -1, 8} {
		_, err := NewAnalogInput(ch)
		var he *Error
		if !errors.As(err, &he) || he.C != errcode.InvalidChannel || he.Channel != ch {
			t.Fatalf("channel %d err = %v", ch, err)
		}
		if !errors.Is(err, halerr.ErrInvalidChannel) {
			t.Fatal("sentinel not matched")
		}
	}
	if _, err := NewDigitalOutput(31); !errors.Is(err, errcode.InvalidChannel) {
		t.Fatalf("dio 31 err = %v", err)
	}
	if _, err := OpenI2C(2); !errors.Is(err, errcode.InvalidChannel) {
		t.Fatalf("i2c 2 err = %v", err)
	}
	if l.Calls() != calls {
		t.Fatalf("validation made %d native calls", l.Calls()-calls)
	}
}

func TestCheckModule(t *testing.T) {
	if err := CheckModule(DomainSolenoid, 0); err != nil {
		t.Fatal(err)
	}
	if err := CheckModule(DomainPDP, 62); err != nil {
		t.Fatal(err)
	}
	if err := CheckModule(DomainSolenoid, 63); !errors.Is(err, halerr.ErrInvalidModule) {
		t.Fatalf("63 err = %v", err)
	}
	if err := CheckModule(DomainDIO, 0); errcode.Of(err) != errcode.InvalidModule {
		t.Fatalf("dio has no modules, err = %v", err)
	}
}

func TestSecondAllocationFailsWithoutLeak(t *testing.T) {
	l := withSim(t, sim.Options{})

	a, err := NewAnalogInput(1)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := NewAnalogInput(1); errcode.Of(err) != errcode.ResourceAllocated {
		t.Fatalf("err = %v", err)
	}
	if l.Live() != 1 {
		t.Fatalf("live = %d", l.Live())
	}
	if _, err := a.Voltage(); err != nil {
		t.Fatalf("first owner broken: %v", err)
	}
}

func TestDigitalIO(t *testing.T) {
	l := withSim(t, sim.Options{})

	out, err := NewDigitalOutput(4)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if err := out.Set(true); err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Get(); !v {
		t.Fatal("output did not latch")
	}

	in, err := NewDigitalInput(5)
	if err != nil {
		t.Fatal(err)
	}
	if dir, err := in.Direction(); err != nil || !dir || !in.IsInput() {
		t.Fatalf("direction %v %v", dir, err)
	}
	if dir, _ := out.Direction(); dir {
		t.Fatal("output reads back as input")
	}
	l.SetDIOInput(5, true)
	if v, _ := in.Get(); !v {
		t.Fatal("input level not seen")
	}
	if err := in.Set(false); errcode.Of(err) != errcode.ParamOutOfRange {
		t.Fatalf("set on input err = %v", err)
	}
	h := in.Handle().Raw()
	in.Close()
	if l.Frees(h) != 1 {
		t.Fatal("input not freed")
	}
}

func TestGetPort(t *testing.T) {
	l := withSim(t, sim.Options{})
	p, err := GetPortWithModule(2, 5)
	if err != nil || !p.Valid() {
		t.Fatalf("port %v err %v", p, err)
	}
	if _, err := GetPortWithModule(2, 300); !errors.Is(err, halerr.ErrInvalidChannel) {
		t.Fatalf("channel 300 err = %v", err)
	}

	calls := l.Calls()
	for _, m := range []int32{300, 63, -1} {
		_, err := GetPortWithModule(m, 0)
		var he *Error
		if !errors.As(err, &he) || he.C != errcode.InvalidModule || he.Module != m {
			t.Fatalf("module %d err = %v", m, err)
		}
		if !errors.Is(err, halerr.ErrInvalidModule) {
			t.Fatal("sentinel not matched")
		}
	}
	if l.Calls() != calls {
		t.Fatalf("module check made %d native calls", l.Calls()-calls)
	}
}
