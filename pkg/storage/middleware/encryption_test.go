package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/storage"
	"github.com/calyptra/synapse/pkg/storage/middleware"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secretDoc() plasm.Document {
	return plasm.Document{
		Cells: []plasm.CellDoc{
			{Name: "gen", Type: "Generate", Params: map[string]any{"token": "my-secret-sauce"}},
		},
		Connections: []plasm.ConnectionDoc{
			{From: "gen", FromPort: "out", To: "mul", ToPort: "in"},
		},
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	storage.RunTopologyStoreContract(t, mw(storage.NewMemoryStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := storage.NewMemoryStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secure := mw(underlying)

	ctx := context.Background()
	require.NoError(t, secure.Save(ctx, "demo", secretDoc()))

	// The backend only ever sees the envelope.
	stored, err := underlying.Load(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, stored.Cells, 1)
	assert.Equal(t, "encrypted", stored.Cells[0].Type)
	assert.NotContains(t, stored.Cells[0].Params, "token")
	assert.Empty(t, stored.Connections)

	loaded, err := secure.Load(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, loaded.Cells, 1)
	assert.Equal(t, "my-secret-sauce", loaded.Cells[0].Params["token"])
	assert.Len(t, loaded.Connections, 1)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := storage.NewMemoryStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, "rotate", secretDoc()))

	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := rotated.Load(ctx, "rotate")
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", loaded.Cells[0].Params["token"])

	// Without the fallback the old ciphertext is unreadable.
	noFallback := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newKey})(underlying)
	_, err = noFallback.Load(ctx, "rotate")
	require.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainDocuments(t *testing.T) {
	underlying := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", secretDoc()))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "envelope")
}

func TestEncryptionMiddleware_BadKeyLengthPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
