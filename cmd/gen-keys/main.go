package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	var (
		outDir = flag.String("out", "./secrets", "directory for the key pair")
		bits   = flag.Int("bits", 2048, "RSA key size")
	)
	flag.Parse()

	privPEM, pubPEM, err := generate(*bits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir failed: %v\n", err)
		os.Exit(1)
	}

	privPath := filepath.Join(*outDir, "operator_jwt_private.pem")
	pubPath := filepath.Join(*outDir, "operator_jwt_public.pem")

	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "write private key failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write public key failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\nWrote %s\n", privPath, pubPath)
	fmt.Printf("\nJWT_PUBLIC_KEY_PEM=%q\n", envLine(pubPEM))
}

// generate returns a PKCS#1 private key and an SPKI public key, both PEM.
func generate(bits int) (privPEM, pubPEM []byte, err error) {
	if bits < 2048 {
		return nil, nil, fmt.Errorf("key size %d is below 2048", bits)
	}

	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, err
	}

	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal public key failed: %w", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})

	return privPEM, pubPEM, nil
}

// envLine folds a PEM into the single-line \n form the config loader accepts.
func envLine(b []byte) string {
	return strings.ReplaceAll(strings.TrimSpace(string(b)), "\n", `\n`)
}
