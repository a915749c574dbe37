// Package tlsutil issues and loads the TLS material of the gRPC API.
package tlsutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc/credentials"
)

// DefaultValidity is the lifetime of an issued server certificate. The CA
// outlives it tenfold so the server pair can be reissued under the same CA.
const DefaultValidity = 365 * 24 * time.Hour

// Layout names the files of a certificate set kept in one directory.
type Layout struct {
	Dir string
}

func (l Layout) CACert() string     { return filepath.Join(l.Dir, "ca.pem") }
func (l Layout) CAKey() string      { return filepath.Join(l.Dir, "ca-key.pem") }
func (l Layout) ServerCert() string { return filepath.Join(l.Dir, "server.pem") }
func (l Layout) ServerKey() string  { return filepath.Join(l.Dir, "server-key.pem") }

// IssueOptions controls Issue. Hosts defaults to localhost and 127.0.0.1.
type IssueOptions struct {
	Now      func() time.Time
	Hosts    []string
	Validity time.Duration
}

// Issue writes a private CA and a server certificate for opts.Hosts signed by
// it into layout.Dir. Existing files are overwritten.
func Issue(layout Layout, opts IssueOptions) error {
	if len(opts.Hosts) == 0 {
		opts.Hosts = []string{"localhost", "127.0.0.1"}
	}
	if opts.Validity <= 0 {
		opts.Validity = DefaultValidity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := os.MkdirAll(layout.Dir, 0o755); err != nil {
		return fmt.Errorf("tlsutil: mkdir %s: %w", layout.Dir, err)
	}
	notBefore := opts.Now().Add(-time.Minute)

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("tlsutil: generate CA key: %w", err)
	}
	caTemplate := &x509.Certificate{
		Subject:               pkix.Name{Organization: []string{"riskengine"}, CommonName: "riskengine CA"},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(10 * opts.Validity),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	caCert, err := sign(caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		return fmt.Errorf("tlsutil: create CA cert: %w", err)
	}

	serverKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("tlsutil: generate server key: %w", err)
	}
	serverTemplate := &x509.Certificate{
		Subject:     pkix.Name{Organization: []string{"riskengine"}, CommonName: opts.Hosts[0]},
		NotBefore:   notBefore,
		NotAfter:    notBefore.Add(opts.Validity),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range opts.Hosts {
		if ip := net.ParseIP(h); ip != nil {
			serverTemplate.IPAddresses = append(serverTemplate.IPAddresses, ip)
		} else {
			serverTemplate.DNSNames = append(serverTemplate.DNSNames, h)
		}
	}
	serverCert, err := sign(serverTemplate, caCert, &serverKey.PublicKey, caKey)
	if err != nil {
		return fmt.Errorf("tlsutil: create server cert: %w", err)
	}

	return errors.Join(
		writeCert(layout.CACert(), caCert),
		writeKey(layout.CAKey(), caKey),
		writeCert(layout.ServerCert(), serverCert),
		writeKey(layout.ServerKey(), serverKey),
	)
}

// ServerCredentials loads gRPC server credentials from a PEM cert and key. An
// expired certificate is rejected up front instead of at the first handshake.
func ServerCredentials(certFile, keyFile string) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}
	leaf := cert.Leaf
	if leaf == nil {
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("tlsutil: parse server certificate: %w", err)
		}
	}
	if time.Now().After(leaf.NotAfter) {
		return nil, fmt.Errorf("tlsutil: server certificate %s expired at %s", certFile, leaf.NotAfter.Format(time.RFC3339))
	}

	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

// ClientCredentials builds gRPC client credentials trusting caFile, or the
// system pool when caFile is empty. serverName overrides the name checked
// against the server certificate when set.
func ClientCredentials(caFile, serverName string) (credentials.TransportCredentials, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: serverName,
	}

	if caFile != "" {
		caPEM, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("tlsutil: read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("tlsutil: no CA certificate in %s", caFile)
		}
		tlsCfg.RootCAs = pool
	}

	return credentials.NewTLS(tlsCfg), nil
}

func sign(template, parent *x509.Certificate, pub crypto.PublicKey, signer crypto.Signer) (*x509.Certificate, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, err
	}
	template.SerialNumber = serial
	der, err := x509.CreateCertificate(rand.Reader, template, parent, pub, signer)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

func writeCert(path string, cert *x509.Certificate) error {
	return writePEM(path, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

func writeKey(path string, key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("tlsutil: marshal key: %w", err)
	}
	return writePEM(path, &pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
}

func writePEM(path string, block *pem.Block) error {
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return fmt.Errorf("tlsutil: write %s: %w", path, err)
	}
	return nil
}
