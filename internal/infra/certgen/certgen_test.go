package certgen

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"path/filepath"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	certPEM, keyPEM, err := Generate(Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
		t.Fatalf("generated pair does not load: %v", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		t.Fatal("certificate is not PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	if cert.Subject.CommonName != "localhost" {
		t.Fatalf("unexpected common name: %s", cert.Subject.CommonName)
	}
	if err := cert.VerifyHostname("localhost"); err != nil {
		t.Fatalf("certificate does not cover localhost: %v", err)
	}
	if err := cert.VerifyHostname("127.0.0.1"); err != nil {
		t.Fatalf("certificate does not cover 127.0.0.1: %v", err)
	}

	if remaining := time.Until(cert.NotAfter); remaining < 360*24*time.Hour {
		t.Fatalf("expected roughly one year of validity, got %s", remaining)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "ssl", "cert.pem")
	keyPath := filepath.Join(dir, "ssl", "key.pem")

	if err := WriteFiles(certPath, keyPath, Options{}); err != nil {
		t.Fatalf("WriteFiles returned error: %v", err)
	}

	if _, err := tls.LoadX509KeyPair(certPath, keyPath); err != nil {
		t.Fatalf("written pair does not load: %v", err)
	}
}
