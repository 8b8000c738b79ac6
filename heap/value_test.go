package heap

import "testing"

func TestShortIntRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, ShortIntMin, ShortIntMax} {
		if !FitsShortInt(n) {
			t.Fatalf("FitsShortInt(%d) = false, want true", n)
		}
		v := makeShortInt(n)
		if v.Type() != TagInt {
			t.Fatalf("Type() = %v, want TagInt", v.Type())
		}
		if got := v.AsShortInt(); got != n {
			t.Fatalf("AsShortInt() = %d, want %d", got, n)
		}
	}
	if FitsShortInt(ShortIntMax + 1) {
		t.Fatalf("FitsShortInt(%d) = true, want false", ShortIntMax+1)
	}
	if FitsShortInt(ShortIntMin - 1) {
		t.Fatalf("FitsShortInt(%d) = true, want false", ShortIntMin-1)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	if v := MakeBool(true); v.Type() != TagBool || !v.AsBool() {
		t.Fatalf("MakeBool(true) broken: %#v", v)
	}
	if v := MakeBool(false); v.Type() != TagBool || v.AsBool() {
		t.Fatalf("MakeBool(false) broken: %#v", v)
	}
}

func TestCharRoundTrip(t *testing.T) {
	v := MakeChar('x')
	if v.Type() != TagChar || v.AsChar() != 'x' {
		t.Fatalf("MakeChar round-trip broken: %#v", v)
	}
}

func TestShortStringAndSymbol(t *testing.T) {
	s := makeShortString([]byte("ab"))
	if s.Type() != TagString || string(s.ShortBytes()) != "ab" {
		t.Fatalf("short string round-trip broken: %#v", s)
	}
	sym := makeShortSymbol([]byte("x"))
	if sym.Type() != TagSymbol || string(sym.ShortBytes()) != "x" {
		t.Fatalf("short symbol round-trip broken: %#v", sym)
	}
}

func TestNilIsFalseLikeEveryNonBoolIsTruthy(t *testing.T) {
	if Nil.IsFalse() {
		t.Fatalf("Nil must be truthy per the core's single-falsy-value rule")
	}
	if !MakeBool(false).IsFalse() {
		t.Fatalf("#f must be the only falsy value")
	}
}

func TestEqIdentical(t *testing.T) {
	a := makeShortInt(42)
	b := makeShortInt(42)
	if !EqIdentical(a, b) {
		t.Fatalf("equal immediates must be eq?")
	}
	if EqIdentical(makeShortInt(1), makeShortInt(2)) {
		t.Fatalf("distinct immediates must not be eq?")
	}
	if EqIdentical(Nil, makeShortInt(0)) {
		t.Fatalf("nil and 0 must not be eq?")
	}
}
