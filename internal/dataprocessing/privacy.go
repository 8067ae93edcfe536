package dataprocessing

import (
	"context"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"genaidash/internal/config"
	"genaidash/pkg/contracts/domain"
)

// PrivacyTransform drops the configured DropFields and, unless raw PII is
// allowed, replaces every non-null value of the AnonymizeFields with a keyed
// BLAKE2b-256 digest (hex). The salt is the key, so equal inputs map to equal
// digests within one deployment. Columns absent from the table are ignored.
func PrivacyTransform(p config.PrivacyConfig) TransformFunc {
	salt := []byte(p.HashSalt)
	drop := append([]string(nil), p.DropFields...)
	anonymize := append([]string(nil), p.AnonymizeFields...)
	allow := p.AllowPII

	return func(_ context.Context, t *Table) (*Table, error) {
		t.DropColumns(drop...)
		if allow {
			return t, nil
		}

		for _, name := range anonymize {
			c := t.ColumnIndex(name)
			if c < 0 {
				continue
			}
			for _, row := range t.Rows {
				if row[c].Null {
					continue
				}
				digest, err := HashValue(salt, row[c].Raw)
				if err != nil {
					return nil, fmt.Errorf("anonymize %s: %w", name, err)
				}
				row[c] = Value{Raw: digest}
			}
			t.Kinds[c] = domain.ColumnKindText
		}
		return t, nil
	}
}

// HashValue returns the hex BLAKE2b-256 MAC of value under key. Keys longer
// than 64 bytes are rejected by blake2b.
func HashValue(key []byte, value string) (string, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return "", err
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil)), nil
}
