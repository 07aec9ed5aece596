package tls12

import (
	"context"
	"crypto/x509"

	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/conduitsec/tls12/pkg/protocol/alert"
	"github.com/conduitsec/tls12/pkg/protocol/extension"
	"github.com/conduitsec/tls12/pkg/protocol/handshake"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
)

func flight1Generate(_ flightConn, state *State, _ *handshakeCache, cfg *handshakeConfig) ([]*packet, *alert.Alert, error) {
	if err := state.localRandom.Populate(); err != nil {
		return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
	}

	extensions := []extension.Extension{
		&extension.SupportedSignatureAlgorithms{
			SignatureHashAlgorithms: cfg.localSignatureSchemes,
		},
		&extension.RenegotiationInfo{},
	}

	needsECC := false
	for _, c := range cfg.localCipherSuites {
		if c.ECC() {
			needsECC = true
			break
		}
	}
	if needsECC {
		extensions = append(extensions,
			&extension.SupportedEllipticCurves{
				EllipticCurves: cfg.ellipticCurves,
			},
			&extension.SupportedPointFormats{
				PointFormats: []elliptic.CurvePointFormat{elliptic.CurvePointFormatUncompressed},
			},
		)
	}

	if len(cfg.serverName) > 0 {
		extensions = append(extensions, &extension.ServerName{ServerName: cfg.serverName})
	}

	return []*packet{
		{
			record: &recordlayer.RecordLayer{
				Header: recordlayer.Header{
					// Widest compatibility for the first record, RFC 5246 appendix E.1.
					Version: protocol.Version1_0,
				},
				Content: &handshake.Handshake{
					Message: &handshake.MessageClientHello{
						Version:            protocol.Version1_2,
						Random:             state.localRandom,
						CipherSuiteIDs:     cipherSuiteIDs(cfg.localCipherSuites),
						CompressionMethods: protocol.DefaultCompressionMethods(),
						Extensions:         extensions,
					},
				},
			},
		},
	}, nil, nil
}

func flight1Parse(_ context.Context, _ flightConn, state *State, cache *handshakeCache, cfg *handshakeConfig) (flightVal, *alert.Alert, error) { //nolint:gocognit,cyclop
	msgs, ok, err := cache.fullPullMap(KeyExchangeAlgorithmNone,
		handshakeCachePullRule{handshake.TypeServerHello, false, false},
		handshakeCachePullRule{handshake.TypeCertificate, false, true},
		handshakeCachePullRule{handshake.TypeServerKeyExchange, false, true},
		handshakeCachePullRule{handshake.TypeCertificateRequest, false, true},
		handshakeCachePullRule{handshake.TypeServerHelloDone, false, false},
	)
	if err != nil {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.DecodeError}, err
	}
	if !ok {
		// Server's flight has not fully arrived yet
		return 0, nil, nil
	}

	serverHello, ok := msgs[handshake.TypeServerHello].(*handshake.MessageServerHello)
	if !ok {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, nil
	}

	if !serverHello.Version.Equal(protocol.Version1_2) {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.ProtocolVersion}, errUnsupportedProtocolVersion
	}
	if serverHello.CompressionMethod.ID != protocol.CompressionMethodNull {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.IllegalParameter}, errCompressionMethodMismatch
	}
	state.remoteRandom = serverHello.Random

	// The chosen suite must be one we offered
	selected := cipherSuiteForID(CipherSuiteID(*serverHello.CipherSuiteID), cfg.customCipherSuites)
	if selected == nil {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.HandshakeFailure}, errServerHelloNoCipherSuite
	}
	offered := false
	for _, c := range cfg.localCipherSuites {
		if c.ID() == selected.ID() {
			offered = true
			break
		}
	}
	if !offered {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.HandshakeFailure}, errCipherSuiteNoIntersection
	}
	state.cipherSuite = selected
	cfg.log.Tracef("[handshake] use cipher suite: %s", selected.String())

	if _, requested := msgs[handshake.TypeCertificateRequest]; requested {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.HandshakeFailure}, errClientCertificateUnsupported
	}

	certificate, ok := msgs[handshake.TypeCertificate].(*handshake.MessageCertificate)
	if !ok {
		// All supported suites authenticate the server with a certificate
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.CertificateUnknown}, errInvalidCertificate
	}
	if err := handleServerCertificate(state, cfg, certificate); err != nil {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.BadCertificate}, err
	}

	keyExchange, haveKeyExchange := msgs[handshake.TypeServerKeyExchange].(*handshake.MessageServerKeyExchange)
	switch {
	case state.cipherSuite.KeyExchangeAlgorithm().Has(KeyExchangeAlgorithmEcdhe):
		if !haveKeyExchange {
			return 0, &alert.Alert{Level: alert.Fatal, Description: alert.UnexpectedMessage}, errUnexpectedMessage
		}
		if err := handleServerKeyExchange(state, cfg, keyExchange); err != nil {
			return 0, &alert.Alert{Level: alert.Fatal, Description: alert.IllegalParameter}, err
		}
	case haveKeyExchange:
		// RSA key exchange carries everything in the certificate
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.UnexpectedMessage}, errUnexpectedMessage
	}

	return flight5, nil, nil
}

func handleServerCertificate(state *State, cfg *handshakeConfig, certificate *handshake.MessageCertificate) error {
	state.remoteCertificate = certificate.Certificate

	var verifiedChains [][]*x509.Certificate
	if !cfg.insecureSkipVerify {
		chains, err := verifyServerCert(certificate.Certificate, cfg.rootCAs, cfg.serverName)
		if err != nil {
			return err
		}
		state.peerCertificatesVerified = true
		verifiedChains = chains
	}
	if cfg.verifyPeerCertificate != nil {
		if err := cfg.verifyPeerCertificate(certificate.Certificate, verifiedChains); err != nil {
			return err
		}
	}
	return nil
}

func handleServerKeyExchange(state *State, cfg *handshakeConfig, keyExchange *handshake.MessageServerKeyExchange) error {
	localRandom := state.localRandom.MarshalFixed()
	remoteRandom := state.remoteRandom.MarshalFixed()

	expectedMsg := valueKeyMessage(localRandom[:], remoteRandom[:], keyExchange.PublicKey, keyExchange.NamedCurve)
	if err := verifyKeySignature(expectedMsg, keyExchange.Signature, keyExchange.HashAlgorithm, state.remoteCertificate); err != nil {
		return err
	}

	curveOffered := false
	for _, c := range cfg.ellipticCurves {
		if c == keyExchange.NamedCurve {
			curveOffered = true
			break
		}
	}
	if !curveOffered {
		return errInvalidNamedCurve
	}

	localKeypair, err := elliptic.GenerateKeypair(keyExchange.NamedCurve)
	if err != nil {
		return err
	}
	state.namedCurve = keyExchange.NamedCurve
	state.localKeypair = localKeypair

	preMasterSecret, err := elliptic.SharedSecret(localKeypair, keyExchange.PublicKey)
	if err != nil {
		return err
	}
	state.preMasterSecret = preMasterSecret

	return nil
}
