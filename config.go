package tls12

import (
	"context"
	"crypto/x509"
	"time"

	"github.com/pion/logging"
)

const defaultConnectTimeout = 30 * time.Second

// Config is used to configure a TLS client connection.
// After a Config is passed to a TLS function it must not be modified.
type Config struct {
	// CipherSuites is a list of supported cipher suites.
	// If CipherSuites is nil, a default list is used.
	CipherSuites []CipherSuiteID

	// CustomCipherSuites is a list of CipherSuites that can be
	// provided by the user. This allow usage of Ciphers that are reserved
	// for private usage.
	CustomCipherSuites func() []CipherSuite

	// InsecureSkipVerify controls whether a client verifies the
	// server's certificate chain and host name.
	// If InsecureSkipVerify is true, TLS accepts any certificate
	// presented by the server and any host name in that certificate.
	// In this mode, TLS is susceptible to man-in-the-middle attacks.
	// This should be used only for testing.
	InsecureSkipVerify bool

	// VerifyPeerCertificate, if not nil, is called after normal
	// certificate verification. It receives the certificate provided by the peer
	// and also a flag that tells if normal verification has succeeded. If it returns a
	// non-nil error, the handshake is aborted and that error results.
	//
	// If normal verification fails then the handshake will abort before
	// considering this callback. If normal verification is disabled by
	// setting InsecureSkipVerify, then this callback will be considered but
	// the verifiedChains will always be nil.
	VerifyPeerCertificate func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error

	// RootCAs defines the set of root certificate authorities
	// that clients use when verifying server certificates.
	// If RootCAs is nil, TLS uses the host's root CA set.
	RootCAs *x509.CertPool

	// ServerName is used to verify the hostname on the returned
	// certificates. It is also included in the client's handshake to support
	// virtual hosting unless it is an IP address.
	ServerName string

	// LoggerFactory produces the logger the connection and handshake use.
	LoggerFactory logging.LoggerFactory

	// ConnectContextMaker is a function to make a context used in Dial(),
	// Client() and Accept(). If nil, the default ConnectContextMaker is used.
	// It can be implemented as following.
	//
	//	func ConnectContextMaker() (context.Context, func()) {
	//		return context.WithTimeout(context.Background(), 30*time.Second)
	//	}
	ConnectContextMaker func() (context.Context, func())
}

func (c *Config) connectContextMaker() (context.Context, func()) {
	if c.ConnectContextMaker != nil {
		return c.ConnectContextMaker()
	}
	return context.WithTimeout(context.Background(), defaultConnectTimeout)
}

func validateConfig(config *Config) error {
	if config == nil {
		return errNoConfigProvided
	}

	_, err := parseCipherSuites(config.CipherSuites, config.CustomCipherSuites)
	return err
}
