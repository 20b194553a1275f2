package defios

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	walletPrefix  = "dos"
	derivedPrefix = "dpa"
)

// GetHash returns the keccak-256 digest of b.
func GetHash(b []byte) []byte {
	return crypto.Keccak256(b)
}

// SignBytes signs the keccak-256 digest of payload with a hex-encoded
// secp256k1 private key. The signature is 65 bytes (r, s, v).
func SignBytes(payload []byte, privatekey string) ([]byte, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privatekey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %v", err)
	}
	return crypto.Sign(GetHash(payload), key)
}

// RecoverAddress recovers the wallet address that produced signature over
// payload.
func RecoverAddress(payload []byte, signature []byte) (string, error) {
	if len(signature) != 65 {
		return "", fmt.Errorf("invalid signature length: %d", len(signature))
	}
	pub, err := crypto.SigToPub(GetHash(payload), signature)
	if err != nil {
		return "", fmt.Errorf("signature recovery failed: %v", err)
	}
	addr := crypto.PubkeyToAddress(*pub)
	return walletPrefix + hex.EncodeToString(addr.Bytes()), nil
}

// VerifySignature checks that signature over payload was produced by the
// holder of address.
func VerifySignature(payload []byte, signature []byte, address string) error {
	recovered, err := RecoverAddress(payload, signature)
	if err != nil {
		return err
	}
	if recovered != address {
		return fmt.Errorf("signer mismatch: expected %s, got %s", address, recovered)
	}
	return nil
}

// PrivKeyToAddr derives the wallet address for a hex-encoded private key.
func PrivKeyToAddr(privatekey string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privatekey, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %v", err)
	}
	addr := crypto.PubkeyToAddress(key.PublicKey)
	return walletPrefix + hex.EncodeToString(addr.Bytes()), nil
}

// AttestationMessage is the canonical string a router creator signs to attest
// a (username, pubkey) pair.
func AttestationMessage(username, pubkey string) string {
	return fmt.Sprintf("DefiOS(%s, %s)", username, pubkey)
}

func isAddr(s, prefix string) bool {
	if len(s) != 43 || s[:3] != prefix {
		return false
	}
	_, err := hex.DecodeString(s[3:])
	return err == nil
}

// IsWalletAddr reports whether s is a key-backed wallet address.
func IsWalletAddr(s string) bool { return isAddr(s, walletPrefix) }

// IsDerivedAddr reports whether s is a program-derived account address.
func IsDerivedAddr(s string) bool { return isAddr(s, derivedPrefix) }
