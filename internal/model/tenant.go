package model

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// TenantContext is an account-scoped identity for which data is collected
type TenantContext struct {
	AccountNumber int    `json:"account_number"`
	B64Identity   string `json:"b64_identity"`
}

type identityBlob struct {
	Identity identityFields `json:"identity"`
}

type identityFields struct {
	AccountNumber interface{} `json:"account_number"`
}

// NewTenantContext builds a TenantContext for an account number, encoding
// the matching x-rh-identity header value.
func NewTenantContext(accountNumber int) TenantContext {
	blob, _ := json.Marshal(identityBlob{
		Identity: identityFields{AccountNumber: accountNumber},
	})
	return TenantContext{
		AccountNumber: accountNumber,
		B64Identity:   base64.StdEncoding.EncodeToString(blob),
	}
}

// AccountFromIdentity decodes a base64 x-rh-identity header value and
// returns the account number it carries. Some producers send the account
// number as a JSON string, others as a number; both are accepted.
func AccountFromIdentity(b64Identity string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(b64Identity)
	if err != nil {
		return 0, errors.Wrap(err, "invalid base64 identity")
	}

	var blob identityBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return 0, errors.Wrap(err, "invalid identity JSON")
	}

	switch v := blob.Identity.AccountNumber.(type) {
	case float64:
		return int(v), nil
	case string:
		account, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid account_number %q", v)
		}
		return account, nil
	case nil:
		return 0, errors.New("identity carries no account_number")
	default:
		return 0, errors.Errorf("unexpected account_number type %T", v)
	}
}
