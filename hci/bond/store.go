// Package bond persists pairing link keys so bonded controllers can
// reconnect across power cycles.
package bond

import (
	"bytes"
	"encoding/binary"
	"os"
	"sync"

	"github.com/pkg/errors"

	blueretro "github.com/Alkhymia/BlueRetro"
)

// Capacity is the fixed size of the key ring.
const Capacity = 16

// Record is one bonded device: remote address plus its link key, both
// in wire (little-endian) byte order.
type Record struct {
	BDAddr  [6]byte
	LinkKey [16]byte
}

// image is the durable file layout: a 4-byte insertion cursor followed
// by the full ring.
type image struct {
	Cursor  uint32
	Records [Capacity]Record
}

var logger = blueretro.GetLogger()

// Store is a ring of up to Capacity bonded-device records mirrored to
// a file on every mutation.
type Store struct {
	mu   sync.Mutex
	path string
	img  image
}

// NewStore loads the ring from path. A missing file is not an error:
// an empty ring is created and persisted immediately. Any other read
// failure falls back to an empty in-memory ring.
func NewStore(path string) *Store {
	s := &Store{path: path}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Info("bond: no link keys on disk, creating ", path)
		if err := s.flush(); err != nil {
			logger.Error("bond: ", err)
		}
		return s
	}
	if err != nil {
		logger.Error("bond: can't read link keys, starting empty: ", err)
		return s
	}

	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &s.img); err != nil {
		logger.Error("bond: corrupt link key file, starting empty: ", err)
		s.img = image{}
	}

	return s
}

// Lookup returns the stored link key for addr. The second return is
// false when the address was never bonded, which is an expected
// outcome for new devices.
func (s *Store) Lookup(addr [6]byte) ([16]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var key [16]byte
	found := false
	for _, r := range s.img.Records {
		if r.BDAddr == addr {
			key = r.LinkKey
			found = true
		}
	}
	return key, found
}

// Store writes a record into the ring. An existing record for the same
// address is overwritten in place without moving the insertion cursor;
// a new address takes the cursor slot and advances it, evicting the
// oldest unmatched entry once the ring is full. The whole ring is
// flushed to disk after every mutation; a flush failure is returned
// but the in-memory update stands.
func (s *Store) Store(addr [6]byte, key [16]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.img.Cursor
	for i, r := range s.img.Records {
		if r.BDAddr == addr {
			index = uint32(i)
		}
	}

	s.img.Records[index] = Record{BDAddr: addr, LinkKey: key}
	if index == s.img.Cursor {
		s.img.Cursor = (s.img.Cursor + 1) % Capacity
	}

	return s.flush()
}

// Cursor returns the current insertion cursor, for tests and logging.
func (s *Store) Cursor() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img.Cursor
}

func (s *Store) flush() error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &s.img); err != nil {
		return errors.Wrap(err, "can't marshal link keys")
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "can't write link keys")
	}
	return nil
}
