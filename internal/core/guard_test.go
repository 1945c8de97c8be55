package core

import "testing"

func TestAddressGuardCountsPerAddress(t *testing.T) {
	g := newAddressGuard(2)

	if !g.allow("a") || !g.allow("a") {
		t.Fatal("first two connections refused")
	}
	if g.allow("a") {
		t.Fatal("third connection admitted over the limit")
	}
	if !g.allow("b") {
		t.Fatal("independent address refused")
	}

	g.release("a")
	if !g.allow("a") {
		t.Fatal("slot not freed after release")
	}
}

func TestAddressGuardDropsEntryAtZero(t *testing.T) {
	g := newAddressGuard(5)
	g.allow("a")
	g.release("a")

	if _, ok := g.counts["a"]; ok {
		t.Fatal("counter entry kept at zero")
	}
	// Releasing an unknown address must not underflow.
	g.release("ghost")
	if _, ok := g.counts["ghost"]; ok {
		t.Fatal("release created an entry")
	}
}
