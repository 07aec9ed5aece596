package tls12

import (
	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/conduitsec/tls12/pkg/protocol/handshake"
)

// State holds the TLS session context negotiated during the handshake.
type State struct {
	localRandom, remoteRandom handshake.Random
	masterSecret              []byte
	cipherSuite               CipherSuite // nil if a cipherSuite hasn't been chosen

	remoteCertificate        [][]byte
	peerCertificatesVerified bool

	isClient bool

	preMasterSecret []byte

	namedCurve   elliptic.Curve
	localKeypair *elliptic.Keypair

	serverName      string
	localVerifyData []byte // cached VerifyData
}

// RemoteCertificate returns the certificate chain presented by remote peer.
func (s *State) RemoteCertificate() [][]byte {
	return s.remoteCertificate
}

// CipherSuiteID returns the ID of the negotiated cipher suite, or zero
// before one has been chosen.
func (s *State) CipherSuiteID() CipherSuiteID {
	if s.cipherSuite == nil {
		return CipherSuiteID(0)
	}
	return s.cipherSuite.ID()
}

// ServerName returns the name the connection was dialed with.
func (s *State) ServerName() string {
	return s.serverName
}
