package adapter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/niksmo/shopsphere/internal/adapter"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("MissingCA", func(t *testing.T) {
		_, err := adapter.MakeTLSConfig(
			filepath.Join(dir, "ca.crt"),
			filepath.Join(dir, "client.crt"),
			filepath.Join(dir, "client.key"),
		)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("MalformedCA", func(t *testing.T) {
		ca := filepath.Join(dir, "bad.crt")
		require.NoError(t, os.WriteFile(ca, []byte("not a pem"), 0o600))

		_, err := adapter.MakeTLSConfig(ca, "", "")
		require.ErrorContains(t, err, "failed to parse CA certificate")
	})
}
