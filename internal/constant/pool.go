package constant

import (
	"fmt"
	"sync"
)

// Pool interns signed-pointer constants for one compilation session.
// Intern-or-return-existing is atomic: concurrent signing of
// structurally equal tuples never yields two distinct canonical values.
// Downstream merging relies on that, it is not an optimization.
type Pool struct {
	mu     sync.Mutex
	signed map[string]*SignedPointer
}

// NewPool creates an empty interning pool.
func NewPool() *Pool {
	return &Pool{signed: make(map[string]*SignedPointer)}
}

// Intern returns the canonical signed-pointer constant for the given
// tuple, creating it on first use. The base pointer must already be
// cast-stripped; the signer is responsible for defaulting and
// validating the discriminators before calling Intern.
func (p *Pool) Intern(ptr Value, key int, intDisc *Integer, addrDisc Value) (*SignedPointer, error) {
	fp, err := FingerprintSignedPointer(ptr, key, intDisc, addrDisc)
	if err != nil {
		return nil, fmt.Errorf("intern signed pointer: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.signed[fp]; ok {
		return existing, nil
	}

	c := &SignedPointer{
		Pointer:              ptr,
		Key:                  key,
		IntegerDiscriminator: intDisc,
		AddressDiscriminator: addrDisc,
		fingerprint:          fp,
	}
	p.signed[fp] = c
	return c, nil
}

// Len returns the number of distinct signed pointers interned so far.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.signed)
}
