// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// ErrSerialization is returned when a value can't be canonically serialized
// for hashing or signing.
var ErrSerialization = errors.New("serialization failed")

// everestStamp is mixed into every signed digest so signatures produced for
// this chain can never be replayed against another system.
var everestStamp = []byte("\x19Everest Signed Message:\n32")

// =============================================================================

// Hash returns a unique string for the value. The value is serialized with
// a fixed field order so the same value always produces the same 64 hex
// character digest across runs and platforms.
func Hash(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash, fmt.Errorf("marshal value: %w", ErrSerialization)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Sign uses the specified private key to sign the value. The signature is
// returned as a hex encoded string suitable for use as a transaction payload.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Drop the recovery id. Verification happens against a known public
	// key, so only the R and S components are carried in the payload.
	return hex.EncodeToString(sig[:crypto.RecoveryIDOffset]), nil
}

// Verify reports whether the hex encoded signature was produced over the
// value by the holder of the specified public key. Malformed input verifies
// as false, never as an error.
func Verify(value any, sigStr string, publicKey []byte) bool {
	sig, err := hex.DecodeString(sigStr)
	if err != nil {
		return false
	}

	if len(sig) != crypto.RecoveryIDOffset {
		return false
	}

	data, err := stamp(value)
	if err != nil {
		return false
	}

	return crypto.VerifySignature(publicKey, data, sig)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this value with
// the Everest stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", ErrSerialization)
	}

	// Hash the value into a 32 byte array to provide data length
	// consistency, then bind it to this chain with the stamp.
	txHash := crypto.Keccak256(v)
	data := crypto.Keccak256(everestStamp, txHash)

	return data, nil
}
