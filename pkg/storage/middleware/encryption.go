package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/storage"
)

// envelopeKey carries the ciphertext inside the envelope document.
const envelopeKey = "__encrypted__"

// EncryptionConfig names the key material for the middleware.
type EncryptionConfig struct {
	// ActiveKey seals every new envelope. 32 bytes, AES-256.
	ActiveKey []byte

	// FallbackKeys are retired keys still accepted on Load, so stored
	// topologies survive a key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   storage.TopologyStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts topologies
// with AES-GCM. Stored documents are opaque envelopes; cell parameters
// never reach the backend in clear text.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next storage.TopologyStore) storage.TopologyStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, name string, doc plasm.Document) error {
	plainText, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal topology: %w", err)
	}

	ciphertext, err := seal(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("encrypt topology: %w", err)
	}

	// The envelope hides the real topology behind a single placeholder
	// cell carrying the ciphertext.
	envelope := plasm.Document{
		Cells: []plasm.CellDoc{{
			Name: "encrypted",
			Type: "encrypted",
			Params: map[string]any{
				envelopeKey: base64.StdEncoding.EncodeToString(ciphertext),
			},
		}},
	}
	return m.next.Save(ctx, name, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) (plasm.Document, error) {
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return plasm.Document{}, err
	}

	if len(envelope.Cells) != 1 {
		return plasm.Document{}, errors.New("topology is missing encrypted data envelope")
	}
	encryptedStr, ok := envelope.Cells[0].Params[envelopeKey].(string)
	if !ok {
		return plasm.Document{}, errors.New("topology is missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return plasm.Document{}, fmt.Errorf("decode ciphertext base64: %w", err)
	}

	plainText, err := openWithRotation(ciphertext, m.config)
	if err != nil {
		return plasm.Document{}, fmt.Errorf("decrypt topology: %w", err)
	}

	var doc plasm.Document
	if err := yaml.Unmarshal(plainText, &doc); err != nil {
		return plasm.Document{}, fmt.Errorf("unmarshal decrypted topology: %w", err)
	}
	return doc, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// seal encrypts one marshalled topology with AES-GCM. The nonce is
// prepended to the sealed bytes so open can split it back off.
func seal(plain, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("draw nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

// openWithRotation tries the active key, then each fallback key in order.
func openWithRotation(sealed []byte, cfg EncryptionConfig) ([]byte, error) {
	if plain, err := open(sealed, cfg.ActiveKey); err == nil {
		return plain, nil
	}
	for _, key := range cfg.FallbackKeys {
		if plain, err := open(sealed, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("no configured key opens this topology")
}

func open(sealed, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("sealed topology shorter than its nonce")
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
