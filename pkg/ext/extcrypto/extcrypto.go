// Package extcrypto provides hashing custom operators for GoLogic.
// All operators use only the Go standard library (no external dependencies).
//
// Security note: MD5 and SHA-1 are provided for compatibility/fingerprinting
// only and should NOT be used for cryptographic security purposes.
package extcrypto

import (
	"context"
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // intentional: provided for non-security fingerprinting
	"crypto/sha1" //nolint:gosec // intentional
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/sandrolain/gologic/pkg/functions"
	"github.com/sandrolain/gologic/pkg/types"
)

// All returns all extended cryptographic operator definitions.
func All() []functions.OperatorDef {
	return []functions.OperatorDef{
		Hash(),
		HMAC(),
	}
}

// Hash returns the definition for {"hash": [str, algorithm]}.
// Supported algorithms: "md5", "sha1", "sha256", "sha384", "sha512".
// Returns a lowercase hex-encoded digest.
func Hash() functions.OperatorDef {
	return functions.OperatorDef{
		Name: "hash",
		Fn: func(_ context.Context, args []*types.Value, a *types.Arena) (*types.Value, error) {
			if len(args) != 2 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindString {
				return nil, types.NewInvalidArguments("hash requires [string, algorithm]")
			}
			h, err := newHasher(strings.ToLower(args[1].Str()))
			if err != nil {
				return nil, types.NewInvalidArguments(err.Error())
			}
			h.Write([]byte(args[0].Str()))
			return a.String(hex.EncodeToString(h.Sum(nil))), nil
		},
	}
}

// HMAC returns the definition for {"hmac": [str, key, algorithm]}.
// Returns a lowercase hex-encoded HMAC.
// Supported algorithms: "md5", "sha1", "sha256", "sha384", "sha512".
func HMAC() functions.OperatorDef {
	return functions.OperatorDef{
		Name: "hmac",
		Fn: func(_ context.Context, args []*types.Value, a *types.Arena) (*types.Value, error) {
			if len(args) != 3 {
				return nil, types.NewInvalidArguments("hmac requires [string, key, algorithm]")
			}
			for _, arg := range args {
				if arg.Kind() != types.KindString {
					return nil, types.NewInvalidArguments("hmac requires string operands")
				}
			}
			var mac hash.Hash
			switch strings.ToLower(args[2].Str()) {
			case "md5":
				mac = hmac.New(md5.New, []byte(args[1].Str())) //nolint:gosec
			case "sha1":
				mac = hmac.New(sha1.New, []byte(args[1].Str())) //nolint:gosec
			case "sha256":
				mac = hmac.New(sha256.New, []byte(args[1].Str()))
			case "sha384":
				mac = hmac.New(sha512.New384, []byte(args[1].Str()))
			case "sha512":
				mac = hmac.New(sha512.New, []byte(args[1].Str()))
			default:
				return nil, types.NewInvalidArguments(
					fmt.Sprintf("unsupported algorithm %q; use md5, sha1, sha256, sha384, or sha512", args[2].Str()))
			}
			mac.Write([]byte(args[0].Str()))
			return a.String(hex.EncodeToString(mac.Sum(nil))), nil
		},
	}
}

// ── helpers ────────────────────────────────────────────────────────────────

func newHasher(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "md5":
		return md5.New(), nil //nolint:gosec
	case "sha1":
		return sha1.New(), nil //nolint:gosec
	case "sha256":
		return sha256.New(), nil
	case "sha384":
		return sha512.New384(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported algorithm %q; use md5, sha1, sha256, sha384, or sha512", algorithm)
	}
}
