package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"
	"time"

	"casino/domain/interfaces"

	"github.com/google/uuid"
)

// hashedEntropySource implements EntropySource by one-way mixing of a
// persistent accumulator, a fresh OS entropy beacon, the wall clock, the
// caller's identity, a per-process instance ID, and a strictly increasing
// per-caller nonce. The accumulator is XOR-updated with every draw so past
// outputs do not predict future ones.
//
// This is a best-effort unpredictability source, not an attestable one:
// nothing here lets a third party verify a draw after the fact.
type hashedEntropySource struct {
	mu          sync.Mutex
	accumulator [sha256.Size]byte
	instanceID  uuid.UUID
	nonces      map[int64]uint64
}

// NewEntropySource creates an entropy source seeded from the OS.
func NewEntropySource() (interfaces.EntropySource, error) {
	s := &hashedEntropySource{
		instanceID: uuid.New(),
		nonces:     make(map[int64]uint64),
	}
	if _, err := rand.Read(s.accumulator[:]); err != nil {
		return nil, fmt.Errorf("failed to seed entropy accumulator: %w", err)
	}
	return s, nil
}

// drawRaw produces one 256-bit draw. Callers must hold s.mu.
func (s *hashedEntropySource) drawRaw(caller int64) (*big.Int, error) {
	var beacon [sha256.Size]byte
	if _, err := rand.Read(beacon[:]); err != nil {
		return nil, fmt.Errorf("failed to read entropy beacon: %w", err)
	}

	s.nonces[caller]++

	var scratch [8]byte
	h := sha256.New()
	h.Write(s.accumulator[:])
	h.Write(beacon[:])
	binary.BigEndian.PutUint64(scratch[:], uint64(time.Now().UnixNano()))
	h.Write(scratch[:])
	binary.BigEndian.PutUint64(scratch[:], uint64(caller))
	h.Write(scratch[:])
	h.Write(s.instanceID[:])
	binary.BigEndian.PutUint64(scratch[:], s.nonces[caller])
	h.Write(scratch[:])

	sum := h.Sum(nil)
	for i := range s.accumulator {
		s.accumulator[i] ^= sum[i]
	}

	return new(big.Int).SetBytes(sum), nil
}

// DrawBounded returns a uniform value in [0, mod) using rejection sampling.
// A plain draw-mod-m is biased toward small residues whenever mod does not
// divide 2^256 evenly, so draws at or above the largest multiple of mod are
// discarded and redrawn.
func (s *hashedEntropySource) DrawBounded(caller int64, mod uint64) (uint64, error) {
	if mod == 0 {
		return 0, fmt.Errorf("modulus must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := new(big.Int).SetUint64(mod)
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	limit := new(big.Int).Sub(max, new(big.Int).Mod(max, m))

	draw, err := s.drawRaw(caller)
	if err != nil {
		return 0, err
	}
	for draw.Cmp(limit) >= 0 {
		if draw, err = s.drawRaw(caller); err != nil {
			return 0, err
		}
	}

	return new(big.Int).Mod(draw, m).Uint64(), nil
}
