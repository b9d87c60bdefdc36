package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	authDomain "github.com/allisson/vult/internal/auth/domain"
	authService "github.com/allisson/vult/internal/auth/service"
	cryptoDomain "github.com/allisson/vult/internal/crypto/domain"
	cryptoService "github.com/allisson/vult/internal/crypto/service"
	"github.com/allisson/vult/internal/database"
	apperrors "github.com/allisson/vult/internal/errors"
)

// maxBackoffExponent caps the unlock backoff at 2^5 = 32 seconds.
const maxBackoffExponent = 5

// SessionConfig holds session tuning knobs.
type SessionConfig struct {
	// MaxFailedAttempts is the number of consecutive failed unlocks after
	// which the session refuses further attempts until restart.
	MaxFailedAttempts int
	// AutoLockTimeout is the idle duration after which the vault locks
	// itself. Zero disables auto-lock.
	AutoLockTimeout time.Duration
	// ActivityTick is the cadence of the idle-time bookkeeping loop in Run.
	ActivityTick time.Duration
	// AutoLockCheckInterval is the cadence of the auto-lock poll in Run.
	AutoLockCheckInterval time.Duration
}

// sessionUseCase implements SessionUseCase. All state transitions happen
// under mu; the master key never leaves except as an independent copy.
type sessionUseCase struct {
	txManager    database.TxManager
	configRepo   VaultConfigRepository
	keyDeriver   cryptoService.KeyDeriver
	verification authService.VerificationService
	cfg          SessionConfig

	// sleep is the backoff delay. Replaceable so tests do not wait.
	sleep func(ctx context.Context, d time.Duration) error

	mu             sync.RWMutex
	masterKey      []byte
	failedAttempts int
	idleFor        time.Duration
	initialized    bool
}

// NewSessionUseCase creates a SessionUseCase instance.
func NewSessionUseCase(
	txManager database.TxManager,
	configRepo VaultConfigRepository,
	keyDeriver cryptoService.KeyDeriver,
	verification authService.VerificationService,
	cfg SessionConfig,
) SessionUseCase {
	return &sessionUseCase{
		txManager:    txManager,
		configRepo:   configRepo,
		keyDeriver:   keyDeriver,
		verification: verification,
		cfg:          cfg,
		sleep:        sleepWithContext,
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Initialize creates the vault configuration and leaves the session unlocked.
func (s *sessionUseCase) Initialize(ctx context.Context, pin string) error {
	if err := authDomain.ValidatePIN(pin); err != nil {
		return err
	}

	if _, err := s.configRepo.Get(ctx); err == nil {
		s.setInitialized(true)
		return authDomain.ErrAlreadyInitialized
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	salt, err := s.keyDeriver.GenerateSalt()
	if err != nil {
		return err
	}
	masterKey, err := s.keyDeriver.DeriveMasterKey(pin, salt)
	if err != nil {
		return err
	}
	hash, err := s.verification.HashKey(masterKey)
	if err != nil {
		cryptoDomain.Zero(masterKey)
		return err
	}

	config := &authDomain.VaultConfig{
		Salt:             salt,
		VerificationHash: hash,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.configRepo.Create(ctx, config); err != nil {
		cryptoDomain.Zero(masterKey)
		if apperrors.Is(err, apperrors.ErrConflict) {
			return authDomain.ErrAlreadyInitialized
		}
		return err
	}

	s.installKey(masterKey)
	return nil
}

// Unlock verifies the PIN and installs the master key. Consecutive failures
// are throttled with exponential backoff and capped by MaxFailedAttempts.
func (s *sessionUseCase) Unlock(ctx context.Context, pin string) error {
	if err := authDomain.ValidatePIN(pin); err != nil {
		return err
	}

	config, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}

	masterKey, err := s.verifyPIN(ctx, pin, config)
	if err != nil {
		return err
	}

	s.installKey(masterKey)
	return nil
}

// loadConfig fetches the vault configuration, mapping a missing row to
// ErrNotInitialized, and keeps the initialized flag in sync.
func (s *sessionUseCase) loadConfig(ctx context.Context) (*authDomain.VaultConfig, error) {
	config, err := s.configRepo.Get(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			s.setInitialized(false)
			return nil, authDomain.ErrNotInitialized
		}
		return nil, err
	}
	s.setInitialized(true)
	return config, nil
}

// verifyPIN checks the PIN against the stored verification hash and returns
// the derived master key. Unlock and ChangePIN both go through here, sharing
// one failure counter, the exponential backoff, and the attempt cap.
func (s *sessionUseCase) verifyPIN(ctx context.Context, pin string, config *authDomain.VaultConfig) ([]byte, error) {
	prior, err := s.reserveAttempt()
	if err != nil {
		return nil, err
	}
	if prior > 0 {
		if err := s.sleep(ctx, backoffDelay(prior)); err != nil {
			s.releaseAttempt()
			return nil, err
		}
	}

	masterKey, err := s.keyDeriver.DeriveMasterKey(pin, config.Salt)
	if err != nil {
		s.releaseAttempt()
		return nil, err
	}
	if !s.verification.CompareKey(masterKey, config.VerificationHash) {
		cryptoDomain.Zero(masterKey)
		return nil, authDomain.ErrInvalidPin
	}

	s.mu.Lock()
	s.failedAttempts = 0
	s.mu.Unlock()
	return masterKey, nil
}

// reserveAttempt counts a verification attempt upfront, inside one critical
// section, so concurrent callers cannot slip past MaxFailedAttempts between
// the check and the increment. It returns the failure count prior to this
// attempt, which drives the backoff delay.
func (s *sessionUseCase) reserveAttempt() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failedAttempts >= s.cfg.MaxFailedAttempts {
		return 0, authDomain.ErrTooManyAttempts
	}
	s.failedAttempts++
	return s.failedAttempts - 1, nil
}

// releaseAttempt undoes a reservation for attempts that never reached the
// verification check. A PIN mismatch keeps its reservation as the failure.
func (s *sessionUseCase) releaseAttempt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failedAttempts > 0 {
		s.failedAttempts--
	}
}

func (s *sessionUseCase) setInitialized(v bool) {
	s.mu.Lock()
	s.initialized = v
	s.mu.Unlock()
}

// backoffDelay returns 2^min(failed, maxBackoffExponent) seconds.
func backoffDelay(failed int) time.Duration {
	exp := failed
	if exp > maxBackoffExponent {
		exp = maxBackoffExponent
	}
	return time.Duration(1<<uint(exp)) * time.Second
}

// installKey stores the key, resets the failure counter, and marks activity.
func (s *sessionUseCase) installKey(masterKey []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.masterKey != nil {
		cryptoDomain.Zero(s.masterKey)
	}
	s.masterKey = masterKey
	s.failedAttempts = 0
	s.idleFor = 0
	s.initialized = true
}

// Lock zeroes and discards the master key. Safe to call in any state.
func (s *sessionUseCase) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.masterKey != nil {
		cryptoDomain.Zero(s.masterKey)
		s.masterKey = nil
	}
}

// ChangePIN verifies the old PIN through the same throttled path as Unlock,
// persists a new salt and verification hash, and runs the rekey callback in
// the same transaction. On success the in-memory key is replaced.
func (s *sessionUseCase) ChangePIN(ctx context.Context, oldPIN, newPIN string, rekey RekeyFunc) error {
	if err := authDomain.ValidatePIN(newPIN); err != nil {
		return err
	}

	config, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}

	oldKey, err := s.verifyPIN(ctx, oldPIN, config)
	if err != nil {
		return err
	}

	newSalt, err := s.keyDeriver.GenerateSalt()
	if err != nil {
		cryptoDomain.Zero(oldKey)
		return err
	}
	newKey, err := s.keyDeriver.DeriveMasterKey(newPIN, newSalt)
	if err != nil {
		cryptoDomain.Zero(oldKey)
		return err
	}
	newHash, err := s.verification.HashKey(newKey)
	if err != nil {
		cryptoDomain.Zero(oldKey)
		cryptoDomain.Zero(newKey)
		return err
	}

	config.Salt = newSalt
	config.VerificationHash = newHash

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.configRepo.Update(ctx, config); err != nil {
			return err
		}
		if rekey != nil {
			return rekey(ctx, oldKey, newKey)
		}
		return nil
	})
	cryptoDomain.Zero(oldKey)
	if err != nil {
		cryptoDomain.Zero(newKey)
		return err
	}

	s.installKey(newKey)
	return nil
}

// MasterKey returns an independent copy of the master key, or ErrLocked.
func (s *sessionUseCase) MasterKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.masterKey == nil {
		return nil, authDomain.ErrLocked
	}
	key := make([]byte, len(s.masterKey))
	copy(key, s.masterKey)
	return key, nil
}

// UpdateActivity resets the idle clock used by auto-lock.
func (s *sessionUseCase) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idleFor = 0
}

// SessionState reports the current state without touching the database. A
// session that has not yet observed the vault configuration (via Initialize,
// Unlock, ChangePIN, or IsInitialized) reports StateUninitialized.
func (s *sessionUseCase) SessionState() authDomain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.masterKey != nil:
		return authDomain.StateUnlocked
	case s.initialized:
		return authDomain.StateLocked
	default:
		return authDomain.StateUninitialized
	}
}

// IsInitialized reports whether the vault configuration exists.
func (s *sessionUseCase) IsInitialized(ctx context.Context) (bool, error) {
	if _, err := s.configRepo.Get(ctx); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			s.setInitialized(false)
			return false, nil
		}
		return false, err
	}
	s.setInitialized(true)
	return true, nil
}

// tickIdle advances the idle clock while the session is unlocked.
func (s *sessionUseCase) tickIdle(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.masterKey != nil {
		s.idleFor += d
	}
}

// shouldAutoLock reports whether the idle timeout elapsed while unlocked.
func (s *sessionUseCase) shouldAutoLock() bool {
	if s.cfg.AutoLockTimeout <= 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.masterKey != nil && s.idleFor >= s.cfg.AutoLockTimeout
}

// Run drives the session's background loops until ctx is cancelled: a
// fine-grained idle-accounting tick and a coarse auto-lock poll.
func (s *sessionUseCase) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.ActivityTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.tickIdle(s.cfg.ActivityTick)
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.AutoLockCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if s.shouldAutoLock() {
					s.Lock()
				}
			}
		}
	})

	return g.Wait()
}
