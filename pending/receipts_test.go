package pending

import "testing"

func TestResolveReleasesAllWaiters(t *testing.T) {
	r := NewReceipts()

	a := r.Await("0xABCD")
	b := r.Await("0xabcd") // same hash, different case

	r.Resolve("0xAbCd", 77)

	for _, ch := range []<-chan uint64{a, b} {
		block, ok := <-ch
		if !ok {
			t.Fatal("Waiter channel closed without a value")
		}
		if block != 77 {
			t.Errorf("Block = %d, want 77", block)
		}
	}

	if r.Size() != 0 {
		t.Errorf("Size = %d after resolve, want 0", r.Size())
	}
}

func TestResolveUnknownHashIsNoOp(t *testing.T) {
	r := NewReceipts()
	r.Resolve("0x01", 5)

	if r.Size() != 0 {
		t.Errorf("Size = %d, want 0", r.Size())
	}
}

func TestForgetClosesWithoutValue(t *testing.T) {
	r := NewReceipts()

	ch := r.Await("0x02")
	r.Forget("0x02")

	if _, ok := <-ch; ok {
		t.Error("Forgotten waiter got a value")
	}
	if r.Size() != 0 {
		t.Errorf("Size = %d after forget, want 0", r.Size())
	}
}

func TestWaitersOfOtherHashesUntouched(t *testing.T) {
	r := NewReceipts()

	kept := r.Await("0x03")
	r.Await("0x04")

	r.Resolve("0x04", 9)

	select {
	case <-kept:
		t.Error("Waiter of a different hash was released")
	default:
	}

	if r.Size() != 1 {
		t.Errorf("Size = %d, want 1", r.Size())
	}
}
