package model

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenantContext(t *testing.T) {
	t.Run("identity blob structure", func(t *testing.T) {
		tenant := NewTenantContext(42)
		assert.Equal(t, 42, tenant.AccountNumber)

		raw, err := base64.StdEncoding.DecodeString(tenant.B64Identity)
		require.NoError(t, err)

		var decoded map[string]map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		require.Contains(t, decoded, "identity")
		assert.Equal(t, float64(42), decoded["identity"]["account_number"])
	})

	t.Run("round trip", func(t *testing.T) {
		tenant := NewTenantContext(1)
		account, err := AccountFromIdentity(tenant.B64Identity)
		require.NoError(t, err)
		assert.Equal(t, 1, account)
	})
}

func TestAccountFromIdentity(t *testing.T) {
	t.Run("numeric account", func(t *testing.T) {
		// {"identity": {"account_number": 42}}
		account, err := AccountFromIdentity("eyJpZGVudGl0eSI6IHsiYWNjb3VudF9udW1iZXIiOiA0Mn19")
		require.NoError(t, err)
		assert.Equal(t, 42, account)
	})

	t.Run("string account", func(t *testing.T) {
		blob := base64.StdEncoding.EncodeToString([]byte(`{"identity":{"account_number":"540155"}}`))
		account, err := AccountFromIdentity(blob)
		require.NoError(t, err)
		assert.Equal(t, 540155, account)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := AccountFromIdentity("not-base-64!")
		assert.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		blob := base64.StdEncoding.EncodeToString([]byte("{nope"))
		_, err := AccountFromIdentity(blob)
		assert.Error(t, err)
	})

	t.Run("missing account number", func(t *testing.T) {
		blob := base64.StdEncoding.EncodeToString([]byte(`{"identity":{}}`))
		_, err := AccountFromIdentity(blob)
		assert.Error(t, err)
	})
}
