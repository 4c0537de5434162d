package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"
)

func TestSignAndValidate_RoundTripsSubject(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	tok, err := SignRS256(priv, "ops@soumya.example", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseAndValidateRS256(tok, &priv.PublicKey)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "ops@soumya.example" || claims.Issuer != Issuer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidate_RejectsExpiredAndForeignKey(t *testing.T) {
	priv, _ := rsa.GenerateKey(rand.Reader, 2048)
	other, _ := rsa.GenerateKey(rand.Reader, 2048)

	expired, _ := SignRS256(priv, "ops", -time.Hour)
	if _, err := ParseAndValidateRS256(expired, &priv.PublicKey); err == nil {
		t.Fatalf("expected expired token to fail")
	}

	tok, _ := SignRS256(priv, "ops", time.Minute)
	if _, err := ParseAndValidateRS256(tok, &other.PublicKey); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}

	if _, err := ParseAndValidateRS256(tok, nil); err == nil {
		t.Fatalf("expected nil key to fail")
	}
}

func TestValidate_RequiresSubject(t *testing.T) {
	priv, _ := rsa.GenerateKey(rand.Reader, 2048)

	tok, _ := SignRS256(priv, "", time.Minute)
	if _, err := ParseAndValidateRS256(tok, &priv.PublicKey); err == nil {
		t.Fatalf("expected missing sub to fail")
	}
}

func TestParseRSAPublicKey_AcceptsEscapedNewlines(t *testing.T) {
	priv, _ := rsa.GenerateKey(rand.Reader, 2048)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	pemText := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
	oneLine := strings.ReplaceAll(pemText, "\n", `\n`)

	pub, err := ParseRSAPublicKey(oneLine)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pub.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatalf("parsed key does not match")
	}

	if _, err := ParseRSAPublicKey("  "); err == nil {
		t.Fatalf("expected empty pem to fail")
	}
}
