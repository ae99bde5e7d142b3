// Package id issues time-sortable identifiers for journal entries.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID for the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID for t. IDs issued within the same millisecond keep
// increasing.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	ms := ulid.Timestamp(t.UTC())
	v, err := ulid.New(ms, mono)
	if err != nil {
		// monotonic entropy exhausted for this millisecond
		v = ulid.MustNew(ms, cryptoRand.Reader)
	}
	return v.String()
}

// Time extracts the timestamp of an ID made by New.
func Time(s string) (time.Time, error) {
	v, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(v.Time()).UTC(), nil
}
