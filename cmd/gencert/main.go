// Command gencert writes a self-signed certificate pair for local HTTPS
// development.
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/stringuers/Secure-SAAS-platform/internal/infra/certgen"
)

func main() {
	certPath := flag.String("cert", "./ssl/cert.pem", "output path for the certificate")
	keyPath := flag.String("key", "./ssl/key.pem", "output path for the private key")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated hostnames and IPs")
	days := flag.Int("days", 365, "certificate validity in days")
	flag.Parse()

	opts := certgen.Options{
		Hosts:    strings.Split(*hosts, ","),
		Validity: time.Duration(*days) * 24 * time.Hour,
	}

	if err := certgen.WriteFiles(*certPath, *keyPath, opts); err != nil {
		log.Fatalf("failed to generate certificate: %v", err)
	}

	log.Printf("wrote %s and %s (valid %d days)", *certPath, *keyPath, *days)
}
