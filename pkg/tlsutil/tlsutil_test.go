package tlsutil_test

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/pkg/tlsutil"
)

func readCert(t *testing.T, path string) *x509.Certificate {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	block, _ := pem.Decode(raw)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	return cert
}

func TestIssue(t *testing.T) {
	layout := tlsutil.Layout{Dir: filepath.Join(t.TempDir(), "certs")}
	require.NoError(t, tlsutil.Issue(layout, tlsutil.IssueOptions{Hosts: []string{"riskengine.local", "10.0.0.7"}}))

	ca := readCert(t, layout.CACert())
	server := readCert(t, layout.ServerCert())
	assert.True(t, ca.IsCA)
	assert.Equal(t, []string{"riskengine.local"}, server.DNSNames)
	require.Len(t, server.IPAddresses, 1)
	assert.Equal(t, "10.0.0.7", server.IPAddresses[0].String())
	assert.NotEqual(t, ca.SerialNumber, server.SerialNumber)

	pool := x509.NewCertPool()
	pool.AddCert(ca)
	_, err := server.Verify(x509.VerifyOptions{DNSName: "riskengine.local", Roots: pool})
	require.NoError(t, err)

	info, err := os.Stat(layout.ServerKey())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := tlsutil.ServerCredentials(layout.ServerCert(), layout.ServerKey())
	require.NoError(t, err)
	assert.Equal(t, "tls", creds.Info().SecurityProtocol)

	_, err = tlsutil.ClientCredentials(layout.CACert(), "riskengine.local")
	require.NoError(t, err)
}

func TestIssue_DefaultHosts(t *testing.T) {
	layout := tlsutil.Layout{Dir: t.TempDir()}
	require.NoError(t, tlsutil.Issue(layout, tlsutil.IssueOptions{}))

	server := readCert(t, layout.ServerCert())
	assert.Equal(t, []string{"localhost"}, server.DNSNames)
	assert.WithinDuration(t, time.Now().Add(tlsutil.DefaultValidity), server.NotAfter, 2*time.Minute)
}

func TestServerCredentials_Expired(t *testing.T) {
	layout := tlsutil.Layout{Dir: t.TempDir()}
	past := func() time.Time { return time.Now().Add(-48 * time.Hour) }
	require.NoError(t, tlsutil.Issue(layout, tlsutil.IssueOptions{Now: past, Validity: time.Hour}))

	_, err := tlsutil.ServerCredentials(layout.ServerCert(), layout.ServerKey())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestServerCredentials_MissingFiles(t *testing.T) {
	_, err := tlsutil.ServerCredentials("/nonexistent/cert.pem", "/nonexistent/key.pem")
	assert.Error(t, err)
}

func TestClientCredentials_BadCA(t *testing.T) {
	layout := tlsutil.Layout{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(layout.CACert(), []byte("not a cert"), 0o600))

	_, err := tlsutil.ClientCredentials(layout.CACert(), "")
	assert.Error(t, err)
}
