package bond

import (
	"path/filepath"
	"testing"
)

func tmpStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkkeys.bin")
	return NewStore(path), path
}

func addrN(n byte) [6]byte {
	return [6]byte{n, n, n, n, n, n}
}

func keyN(n byte) [16]byte {
	var k [16]byte
	for i := range k {
		k[i] = n
	}
	return k
}

func TestStoreLookup(t *testing.T) {
	s, _ := tmpStore(t)

	if _, found := s.Lookup(addrN(1)); found {
		t.Fatal("lookup hit on empty store")
	}

	if err := s.Store(addrN(1), keyN(0xAA)); err != nil {
		t.Fatal(err)
	}

	key, found := s.Lookup(addrN(1))
	if !found {
		t.Fatal("stored key not found")
	}
	if key != keyN(0xAA) {
		t.Fatalf("key mismatch: % X", key)
	}
}

func TestStoreOverwriteKeepsCursor(t *testing.T) {
	s, _ := tmpStore(t)

	if err := s.Store(addrN(1), keyN(0x11)); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != 1 {
		t.Fatalf("cursor %d after first store, want 1", s.Cursor())
	}

	// re-pairing the same peer reuses its slot
	if err := s.Store(addrN(1), keyN(0x22)); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != 1 {
		t.Fatalf("cursor %d after overwrite, want 1", s.Cursor())
	}

	key, found := s.Lookup(addrN(1))
	if !found || key != keyN(0x22) {
		t.Fatalf("overwrite not visible: found=%v key=% X", found, key)
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	s, _ := tmpStore(t)

	for i := byte(0); i < Capacity+1; i++ {
		if err := s.Store(addrN(i+1), keyN(i+1)); err != nil {
			t.Fatal(err)
		}
	}

	if _, found := s.Lookup(addrN(1)); found {
		t.Fatal("oldest entry survived eviction")
	}
	for i := byte(1); i < Capacity+1; i++ {
		if _, found := s.Lookup(addrN(i + 1)); !found {
			t.Fatalf("entry %d missing", i+1)
		}
	}
	if s.Cursor() != 1 {
		t.Fatalf("cursor %d after wrap, want 1", s.Cursor())
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	s, path := tmpStore(t)

	if err := s.Store(addrN(7), keyN(0x77)); err != nil {
		t.Fatal(err)
	}
	if err := s.Store(addrN(8), keyN(0x88)); err != nil {
		t.Fatal(err)
	}

	s2 := NewStore(path)
	key, found := s2.Lookup(addrN(7))
	if !found || key != keyN(0x77) {
		t.Fatalf("reopened store lost entry: found=%v key=% X", found, key)
	}
	if s2.Cursor() != s.Cursor() {
		t.Fatalf("cursor %d after reopen, want %d", s2.Cursor(), s.Cursor())
	}
}
