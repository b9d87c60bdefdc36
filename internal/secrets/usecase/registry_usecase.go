package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/vult/internal/crypto/domain"
	cryptoService "github.com/allisson/vult/internal/crypto/service"
	"github.com/allisson/vult/internal/database"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
	appvalidation "github.com/allisson/vult/internal/validation"
)

// secretRegistry implements SecretRegistry.
type secretRegistry struct {
	txManager   database.TxManager
	secretRepo  SecretRepository
	session     Session
	keyDeriver  cryptoService.KeyDeriver
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewSecretRegistry creates a SecretRegistry instance. New ciphertext is
// produced with the given algorithm.
func NewSecretRegistry(
	txManager database.TxManager,
	secretRepo SecretRepository,
	session Session,
	keyDeriver cryptoService.KeyDeriver,
	aeadManager cryptoService.AEADManager,
	algorithm cryptoDomain.Algorithm,
) SecretRegistry {
	return &secretRegistry{
		txManager:   txManager,
		secretRepo:  secretRepo,
		session:     session,
		keyDeriver:  keyDeriver,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

func validateCreateInput(input *secretsDomain.CreateSecretInput) error {
	err := validation.Errors{
		"key_name": validation.Validate(input.KeyName, validation.Required, appvalidation.NotBlank, appvalidation.NoWhitespace),
		"app_name": validation.Validate(input.AppName, appvalidation.NoWhitespace),
		"api_url":  validation.Validate(input.APIURL, validation.When(input.APIURL != "", appvalidation.HTTPURL)),
		"value":    validation.Validate(input.Value, validation.Required),
	}.Filter()
	return appvalidation.WrapValidationError(err)
}

// validateUpdateInput rejects updates that would leave the secret in an
// invalid state; nil fields are unchanged and not checked.
func validateUpdateInput(input *secretsDomain.UpdateSecretInput) error {
	err := validation.Errors{
		"key_name": validation.Validate(input.KeyName, validation.When(input.KeyName != nil,
			validation.Required, appvalidation.NotBlank, appvalidation.NoWhitespace)),
		"app_name": validation.Validate(input.AppName, validation.When(input.AppName != nil,
			appvalidation.NoWhitespace)),
		"api_url": validation.Validate(input.APIURL, validation.When(input.APIURL != nil && *input.APIURL != "",
			appvalidation.HTTPURL)),
		"value": validation.Validate(input.Value, validation.When(input.Value != nil,
			validation.Required, appvalidation.NotBlank)),
	}.Filter()
	return appvalidation.WrapValidationError(err)
}

// unlockedKey fetches the master key and marks session activity.
func (r *secretRegistry) unlockedKey() ([]byte, error) {
	masterKey, err := r.session.MasterKey()
	if err != nil {
		return nil, err
	}
	r.session.UpdateActivity()
	return masterKey, nil
}

// aad binds ciphertext to the secret's identity so a blob copied onto another
// row fails authentication.
func aad(appName, keyName string) []byte {
	return []byte(appName + "|" + keyName)
}

// seal derives a fresh per-secret key and encrypts value.
func (r *secretRegistry) seal(masterKey []byte, appName, keyName string, value []byte) (*cryptoDomain.EncryptedBlob, []byte, error) {
	aead, err := r.aeadManager.GetAEAD(r.algorithm)
	if err != nil {
		return nil, nil, err
	}
	keySalt, err := r.keyDeriver.GenerateSalt()
	if err != nil {
		return nil, nil, err
	}
	secretKey, err := r.keyDeriver.DeriveSecretKey(masterKey, appName, keyName, keySalt)
	if err != nil {
		return nil, nil, err
	}
	defer cryptoDomain.Zero(secretKey)

	blob, err := aead.Encrypt(secretKey, value, aad(appName, keyName))
	if err != nil {
		return nil, nil, err
	}
	return blob, keySalt, nil
}

// open decrypts a stored secret with the given master key. Rows still on the
// legacy scheme are decrypted directly under the master key.
func (r *secretRegistry) open(masterKey []byte, secret *secretsDomain.Secret) ([]byte, error) {
	aead, err := r.aeadManager.GetAEAD(r.algorithm)
	if err != nil {
		return nil, err
	}
	blob := &cryptoDomain.EncryptedBlob{Ciphertext: secret.Ciphertext, Nonce: secret.Nonce}

	if secret.NeedsReencryption() {
		return aead.Decrypt(masterKey, blob, nil)
	}

	secretKey, err := r.keyDeriver.DeriveSecretKey(masterKey, secret.AppName, secret.KeyName, secret.KeySalt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(secretKey)

	return aead.Decrypt(secretKey, blob, aad(secret.AppName, secret.KeyName))
}

// Create validates the input, encrypts the value under a fresh per-secret
// key, and persists the secret.
func (r *secretRegistry) Create(ctx context.Context, input *secretsDomain.CreateSecretInput) (*secretsDomain.Secret, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	masterKey, err := r.unlockedKey()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(masterKey)

	blob, keySalt, err := r.seal(masterKey, input.AppName, input.KeyName, []byte(input.Value))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	secret := &secretsDomain.Secret{
		ID:          uuid.Must(uuid.NewV7()),
		AppName:     input.AppName,
		KeyName:     input.KeyName,
		APIURL:      input.APIURL,
		Description: input.Description,
		Ciphertext:  blob.Ciphertext,
		Nonce:       blob.Nonce,
		KeySalt:     keySalt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.secretRepo.Create(ctx, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// Get retrieves and decrypts a secret by app and key name.
func (r *secretRegistry) Get(ctx context.Context, appName, keyName string) (*secretsDomain.Secret, error) {
	masterKey, err := r.unlockedKey()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(masterKey)

	secret, err := r.secretRepo.GetByName(ctx, appName, keyName)
	if err != nil {
		return nil, err
	}

	secret.Plaintext, err = r.open(masterKey, secret)
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// GetByID retrieves and decrypts a secret by its identifier.
func (r *secretRegistry) GetByID(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	masterKey, err := r.unlockedKey()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(masterKey)

	secret, err := r.secretRepo.GetByID(ctx, secretID)
	if err != nil {
		return nil, err
	}

	secret.Plaintext, err = r.open(masterKey, secret)
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// List returns secret metadata without decrypting any values. Requires an
// unlocked session regardless, listing names is already sensitive.
func (r *secretRegistry) List(ctx context.Context) ([]*secretsDomain.Secret, error) {
	masterKey, err := r.unlockedKey()
	if err != nil {
		return nil, err
	}
	cryptoDomain.Zero(masterKey)

	return r.secretRepo.List(ctx)
}

// Search returns metadata of secrets matching the query.
func (r *secretRegistry) Search(ctx context.Context, q string) ([]*secretsDomain.Secret, error) {
	masterKey, err := r.unlockedKey()
	if err != nil {
		return nil, err
	}
	cryptoDomain.Zero(masterKey)

	return r.secretRepo.Search(ctx, q)
}

// Update applies the non-nil input fields. The value is re-encrypted only
// when the app name, key name, or value changes, since the encryption key is
// bound to all three; metadata-only updates leave the ciphertext alone.
func (r *secretRegistry) Update(ctx context.Context, secretID uuid.UUID, input *secretsDomain.UpdateSecretInput) (*secretsDomain.Secret, error) {
	if err := validateUpdateInput(input); err != nil {
		return nil, err
	}

	masterKey, err := r.unlockedKey()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(masterKey)

	secret, err := r.secretRepo.GetByID(ctx, secretID)
	if err != nil {
		return nil, err
	}

	appChanged := input.AppName != nil && *input.AppName != secret.AppName
	keyChanged := input.KeyName != nil && *input.KeyName != secret.KeyName
	needsReencrypt := input.Value != nil || appChanged || keyChanged

	var value []byte
	if needsReencrypt {
		if input.Value != nil {
			value = []byte(*input.Value)
		} else {
			value, err = r.open(masterKey, secret)
			if err != nil {
				return nil, err
			}
		}
	}

	if input.AppName != nil {
		secret.AppName = *input.AppName
	}
	if input.KeyName != nil {
		secret.KeyName = *input.KeyName
	}
	if input.APIURL != nil {
		secret.APIURL = *input.APIURL
	}
	if input.Description != nil {
		secret.Description = *input.Description
	}

	if needsReencrypt {
		blob, keySalt, err := r.seal(masterKey, secret.AppName, secret.KeyName, value)
		cryptoDomain.Zero(value)
		if err != nil {
			return nil, err
		}
		secret.Ciphertext = blob.Ciphertext
		secret.Nonce = blob.Nonce
		secret.KeySalt = keySalt
	}

	secret.UpdatedAt = time.Now().UTC()
	if err := r.secretRepo.Update(ctx, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// Delete removes a secret and returns its metadata.
func (r *secretRegistry) Delete(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	masterKey, err := r.unlockedKey()
	if err != nil {
		return nil, err
	}
	cryptoDomain.Zero(masterKey)

	var secret *secretsDomain.Secret
	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		secret, err = r.secretRepo.GetByID(ctx, secretID)
		if err != nil {
			return err
		}
		return r.secretRepo.Delete(ctx, secretID)
	})
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// Count returns the number of stored secrets.
func (r *secretRegistry) Count(ctx context.Context) (int64, error) {
	masterKey, err := r.unlockedKey()
	if err != nil {
		return 0, err
	}
	cryptoDomain.Zero(masterKey)

	return r.secretRepo.Count(ctx)
}

// ReencryptAll upgrades legacy rows to per-secret derived keys. Rows already
// on the new scheme are left untouched, so the operation is idempotent and
// safe to re-run after an interruption.
func (r *secretRegistry) ReencryptAll(ctx context.Context) (int, error) {
	masterKey, err := r.unlockedKey()
	if err != nil {
		return 0, err
	}
	defer cryptoDomain.Zero(masterKey)

	upgraded := 0
	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		secrets, err := r.secretRepo.List(ctx)
		if err != nil {
			return err
		}
		for _, secret := range secrets {
			if !secret.NeedsReencryption() {
				continue
			}
			value, err := r.open(masterKey, secret)
			if err != nil {
				return err
			}
			blob, keySalt, err := r.seal(masterKey, secret.AppName, secret.KeyName, value)
			cryptoDomain.Zero(value)
			if err != nil {
				return err
			}
			if err := r.secretRepo.UpdateCiphertext(ctx, secret.ID, blob.Ciphertext, blob.Nonce, keySalt); err != nil {
				return err
			}
			upgraded++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return upgraded, nil
}

// Rekey re-encrypts every secret from oldKey to newKey. It relies on the
// caller's transaction so a PIN change and its re-encryption commit together.
func (r *secretRegistry) Rekey(ctx context.Context, oldKey, newKey []byte) error {
	secrets, err := r.secretRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, secret := range secrets {
		value, err := r.open(oldKey, secret)
		if err != nil {
			return err
		}
		blob, keySalt, err := r.seal(newKey, secret.AppName, secret.KeyName, value)
		cryptoDomain.Zero(value)
		if err != nil {
			return err
		}
		if err := r.secretRepo.UpdateCiphertext(ctx, secret.ID, blob.Ciphertext, blob.Nonce, keySalt); err != nil {
			return err
		}
	}
	return nil
}
