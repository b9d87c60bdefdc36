package service

import (
	"github.com/allisson/vult/internal/crypto/domain"
	"github.com/allisson/vult/internal/errors"
)

// Manager implements AEADManager with the built-in algorithm set.
type Manager struct {
	aeads map[domain.Algorithm]AEAD
}

// NewManager creates a Manager with AES-256-GCM and ChaCha20-Poly1305
// registered.
func NewManager() *Manager {
	aesGCM := NewAESGCM()
	chaCha := NewChaCha20Poly1305()
	return &Manager{
		aeads: map[domain.Algorithm]AEAD{
			aesGCM.Algorithm(): aesGCM,
			chaCha.Algorithm(): chaCha,
		},
	}
}

// GetAEAD returns the AEAD for algorithm, or domain.ErrUnsupportedAlgorithm.
func (m *Manager) GetAEAD(algorithm domain.Algorithm) (AEAD, error) {
	aead, ok := m.aeads[algorithm]
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnsupportedAlgorithm, "%q", algorithm)
	}
	return aead, nil
}
