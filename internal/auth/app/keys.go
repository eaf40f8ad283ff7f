package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"

	"github.com/lanternsec/lantern/pkg/idx"
	"github.com/lanternsec/lantern/pkg/jwtx"
)

// AuthKeys bundles the signing key material the service runs with.
type AuthKeys struct {
	Signer   jwtx.Signer
	KeySet   *jwtx.KeySet
	Verifier jwtx.Verifier
}

// InitAuthKeys generates a fresh Ed25519 signing key on startup. Keys live
// only in memory, so all outstanding tokens become invalid when the service
// restarts.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*AuthKeys, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signing key: %w", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	kid := idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	logger.Info("ephemeral signing key generated", "kid", kid, "alg", signer.Alg(), "issuer", cfg.Issuer)

	return &AuthKeys{
		Signer:   signer,
		KeySet:   keys,
		Verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer),
	}, nil
}
