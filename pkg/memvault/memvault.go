// Package memvault stores captured secret values XOR-encrypted in memory so
// they never sit in cleartext on the heap between reads. A memory dump
// captures only ciphertext and key in separate allocations.
//
// Storage handed to a vault is owned for the lifetime of the process and is
// deliberately never reclaimed: callers of the guard may hold a returned
// secret indefinitely, so the backing material must stay valid until exit.
package memvault

import (
	"crypto/rand"
	"fmt"
	"runtime"
	"sync"
)

// Blob holds sensitive bytes XOR-encrypted with a random key of equal length.
// At rest, neither the data nor the key alone reveals the plaintext.
type Blob struct {
	data []byte // XOR-encrypted data
	key  []byte // random XOR key (same length as data)
	mu   sync.Mutex
}

// NewBlob encrypts plaintext with a fresh random key and shreds the caller's
// plaintext buffer. The returned blob holds only ciphertext + key.
func NewBlob(plaintext []byte) (*Blob, error) {
	if len(plaintext) == 0 {
		return &Blob{}, nil
	}

	key := make([]byte, len(plaintext))
	if _, err := rand.Read(key); err != nil {
		Shred(plaintext)
		return nil, fmt.Errorf("memvault: crypto/rand failed: %w", err)
	}

	data := make([]byte, len(plaintext))
	for i := range plaintext {
		data[i] = plaintext[i] ^ key[i]
	}

	// Shred the caller's plaintext so it does not linger in memory.
	Shred(plaintext)

	return &Blob{
		data: data,
		key:  key,
	}, nil
}

// Reveal returns a decrypted copy of the stored bytes. The CALLER is
// responsible for calling Shred() on the returned slice when done with it.
func (b *Blob) Reveal() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.data) == 0 {
		return nil
	}

	plain := make([]byte, len(b.data))
	for i := range b.data {
		plain[i] = b.data[i] ^ b.key[i]
	}
	return plain
}

// Len returns the plaintext length without decrypting.
func (b *Blob) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// ---------------------------------------------------------------------------
// Secret — convenience wrapper for individual string values
// ---------------------------------------------------------------------------

// Secret wraps a single string value in a Blob.
type Secret struct {
	blob *Blob
}

// NewSecret encrypts the given string. The original Go string is immutable
// and cannot be zeroed; the caller should avoid keeping references to it.
func NewSecret(s string) (*Secret, error) {
	// Copy into a mutable byte slice so the intermediate can be shredded.
	buf := []byte(s)
	blob, err := NewBlob(buf) // buf is shredded inside NewBlob
	if err != nil {
		return nil, err
	}
	return &Secret{blob: blob}, nil
}

// Get decrypts and returns the stored string. The intermediate byte buffer is
// shredded before returning. NOTE: the returned Go string is backed by a
// separate allocation that cannot be explicitly zeroed — an inherent
// limitation of Go strings. Callers should minimize its lifetime.
func (s *Secret) Get() string {
	plain := s.blob.Reveal()
	if plain == nil {
		return ""
	}
	out := string(plain)
	Shred(plain)
	return out
}

// Len returns the plaintext length without decrypting.
func (s *Secret) Len() int {
	return s.blob.Len()
}

// Shred zeroes out a byte slice to clear sensitive data from memory.
// The go:noinline directive prevents the compiler from inlining and
// optimizing away the zeroing operation. runtime.KeepAlive ensures the
// slice is not collected before zeroing completes.
//
//go:noinline
func Shred(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// Prevent the compiler from optimizing away the zeroing.
	runtime.KeepAlive(b)
}
