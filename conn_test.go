package tls12

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/conduitsec/tls12/internal/ciphersuite"
	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/conduitsec/tls12/pkg/crypto/hash"
	"github.com/conduitsec/tls12/pkg/crypto/prf"
	"github.com/conduitsec/tls12/pkg/crypto/signature"
	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/conduitsec/tls12/pkg/protocol/extension"
	"github.com/conduitsec/tls12/pkg/protocol/handshake"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
	"github.com/pion/transport/v3/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

func generateTestCertificate(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	return key, certDER
}

func pipeForTest(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()

	listener, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	defer func() {
		_ = listener.Close()
	}()

	type accepted struct {
		conn net.Conn
		err  error
	}
	acceptCh := make(chan accepted, 1)
	go func() {
		conn, aErr := listener.Accept()
		acceptCh <- accepted{conn, aErr}
	}()

	clientConn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)

	server := <-acceptCh
	require.NoError(t, server.err)

	return clientConn, server.conn
}

func readTestRecord(conn net.Conn) (recordlayer.Header, []byte, error) {
	rawHeader := make([]byte, recordlayer.HeaderSize)
	if _, err := io.ReadFull(conn, rawHeader); err != nil {
		return recordlayer.Header{}, nil, err
	}
	var header recordlayer.Header
	if err := header.Unmarshal(rawHeader); err != nil {
		return header, nil, err
	}
	body := make([]byte, header.ContentLen)
	if _, err := io.ReadFull(conn, body); err != nil {
		return header, nil, err
	}
	return header, body, nil
}

func decryptTestRecord(suite CipherSuite, header recordlayer.Header, body []byte, seq uint64) ([]byte, error) {
	rawHeader, err := header.Marshal()
	if err != nil {
		return nil, err
	}
	decrypted, err := suite.Decrypt(header, append(rawHeader, body...), seq)
	if err != nil {
		return nil, err
	}
	return decrypted[recordlayer.HeaderSize:], nil
}

// writeTestHandshake marshals and sends one handshake record, returning
// the handshake bytes for the transcript.
func writeTestHandshake(conn net.Conn, msg handshake.Message) ([]byte, error) {
	rec := &recordlayer.RecordLayer{
		Header:  recordlayer.Header{Version: protocol.Version1_2},
		Content: &handshake.Handshake{Message: msg},
	}
	raw, err := rec.Marshal()
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(raw); err != nil {
		return nil, err
	}
	return raw[recordlayer.HeaderSize:], nil
}

type testServerOptions struct {
	suite          CipherSuite
	wireSuiteID    *uint16 // overrides the ServerHello cipher suite
	ecdhe          bool
	tamperFinished bool
	echoRounds     int
}

type testServerResult struct {
	masterSecret []byte
	err          error
}

// runHandshakeServer is a minimal scripted TLS 1.2 server, just enough
// to drive the client through a full handshake.
func runHandshakeServer(conn net.Conn, key *rsa.PrivateKey, certDER []byte, opts testServerOptions) testServerResult { //nolint:cyclop,gocognit,maintidx
	fail := func(err error) testServerResult { return testServerResult{err: err} }
	transcript := []byte{}

	// ClientHello
	_, body, err := readTestRecord(conn)
	if err != nil {
		return fail(err)
	}
	clientHelloHandshake := &handshake.Handshake{}
	if err = clientHelloHandshake.Unmarshal(body); err != nil {
		return fail(err)
	}
	clientHello, ok := clientHelloHandshake.Message.(*handshake.MessageClientHello)
	if !ok {
		return fail(errUnexpectedMessage)
	}
	transcript = append(transcript, body...)
	clientRandom := clientHello.Random.MarshalFixed()

	// ServerHello
	serverRandom := handshake.Random{}
	if err = serverRandom.Populate(); err != nil {
		return fail(err)
	}
	wireSuite := uint16(opts.suite.ID())
	if opts.wireSuiteID != nil {
		wireSuite = *opts.wireSuiteID
	}
	raw, err := writeTestHandshake(conn, &handshake.MessageServerHello{
		Version:           protocol.Version1_2,
		Random:            serverRandom,
		CipherSuiteID:     &wireSuite,
		CompressionMethod: &protocol.CompressionMethod{ID: protocol.CompressionMethodNull},
		Extensions:        []extension.Extension{&extension.RenegotiationInfo{}},
	})
	if err != nil {
		return fail(err)
	}
	transcript = append(transcript, raw...)
	serverRandomFixed := serverRandom.MarshalFixed()

	// Certificate
	raw, err = writeTestHandshake(conn, &handshake.MessageCertificate{Certificate: [][]byte{certDER}})
	if err != nil {
		return fail(err)
	}
	transcript = append(transcript, raw...)

	// ServerKeyExchange for the ECDHE exchange
	var serverKeypair *elliptic.Keypair
	if opts.ecdhe {
		serverKeypair, err = elliptic.GenerateKeypair(elliptic.X25519)
		if err != nil {
			return fail(err)
		}
		signedMessage := valueKeyMessage(clientRandom[:], serverRandomFixed[:], serverKeypair.PublicKey, elliptic.X25519)
		digest := sha256.Sum256(signedMessage)
		sig, sigErr := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
		if sigErr != nil {
			return fail(sigErr)
		}
		raw, err = writeTestHandshake(conn, &handshake.MessageServerKeyExchange{
			EllipticCurveType:  elliptic.CurveTypeNamedCurve,
			NamedCurve:         elliptic.X25519,
			PublicKey:          serverKeypair.PublicKey,
			HashAlgorithm:      hash.SHA256,
			SignatureAlgorithm: signature.RSA,
			Signature:          sig,
		})
		if err != nil {
			return fail(err)
		}
		transcript = append(transcript, raw...)
	}

	// ServerHelloDone
	raw, err = writeTestHandshake(conn, &handshake.MessageServerHelloDone{})
	if err != nil {
		return fail(err)
	}
	transcript = append(transcript, raw...)

	// ClientKeyExchange
	_, body, err = readTestRecord(conn)
	if err != nil {
		return fail(err)
	}
	keyExchangeHandshake := &handshake.Handshake{KeyExchangeAlgorithm: opts.suite.KeyExchangeAlgorithm()}
	if err = keyExchangeHandshake.Unmarshal(body); err != nil {
		return fail(err)
	}
	keyExchange, ok := keyExchangeHandshake.Message.(*handshake.MessageClientKeyExchange)
	if !ok {
		return fail(errUnexpectedMessage)
	}
	transcript = append(transcript, body...)

	var preMasterSecret []byte
	if opts.ecdhe {
		preMasterSecret, err = elliptic.SharedSecret(serverKeypair, keyExchange.PublicKey)
	} else {
		preMasterSecret, err = rsa.DecryptPKCS1v15(nil, key, keyExchange.EncryptedPreMasterSecret)
	}
	if err != nil {
		return fail(err)
	}

	masterSecret, err := prf.MasterSecret(preMasterSecret, clientRandom[:], serverRandomFixed[:], opts.suite.HashFunc())
	if err != nil {
		return fail(err)
	}
	if err = opts.suite.Init(masterSecret, clientRandom[:], serverRandomFixed[:], false); err != nil {
		return fail(err)
	}

	// Client ChangeCipherSpec
	header, body, err := readTestRecord(conn)
	if err != nil {
		return fail(err)
	}
	if header.ContentType != protocol.ContentTypeChangeCipherSpec {
		return fail(errUnexpectedMessage)
	}

	// Client Finished, first protected record
	header, body, err = readTestRecord(conn)
	if err != nil {
		return fail(err)
	}
	content, err := decryptTestRecord(opts.suite, header, body, 0)
	if err != nil {
		return fail(err)
	}
	finishedHandshake := &handshake.Handshake{}
	if err = finishedHandshake.Unmarshal(content); err != nil {
		return fail(err)
	}
	finished, ok := finishedHandshake.Message.(*handshake.MessageFinished)
	if !ok {
		return fail(errUnexpectedMessage)
	}
	expectedVerifyData, err := prf.VerifyDataClient(masterSecret, transcript, opts.suite.HashFunc())
	if err != nil {
		return fail(err)
	}
	if !hmacEqual(expectedVerifyData, finished.VerifyData) {
		return fail(errVerifyDataMismatch)
	}
	transcript = append(transcript, content...)

	// Server ChangeCipherSpec + Finished
	ccsRecord := &recordlayer.RecordLayer{
		Header:  recordlayer.Header{Version: protocol.Version1_2},
		Content: &protocol.ChangeCipherSpec{},
	}
	rawCCS, err := ccsRecord.Marshal()
	if err != nil {
		return fail(err)
	}
	if _, err = conn.Write(rawCCS); err != nil {
		return fail(err)
	}

	serverVerifyData, err := prf.VerifyDataServer(masterSecret, transcript, opts.suite.HashFunc())
	if err != nil {
		return fail(err)
	}
	if opts.tamperFinished {
		serverVerifyData[0] ^= 0xff
	}
	finishedRecord := &recordlayer.RecordLayer{
		Header:  recordlayer.Header{Version: protocol.Version1_2},
		Content: &handshake.Handshake{Message: &handshake.MessageFinished{VerifyData: serverVerifyData}},
	}
	rawFinished, err := finishedRecord.Marshal()
	if err != nil {
		return fail(err)
	}
	encryptedFinished, err := opts.suite.Encrypt(finishedRecord, rawFinished, 0)
	if err != nil {
		return fail(err)
	}
	if _, err = conn.Write(encryptedFinished); err != nil {
		return fail(err)
	}

	// Echo application data back at the client
	for i := 0; i < opts.echoRounds; i++ {
		seq := uint64(i + 1)
		header, body, err = readTestRecord(conn)
		if err != nil {
			return fail(err)
		}
		if header.ContentType != protocol.ContentTypeApplicationData {
			return fail(errUnexpectedMessage)
		}
		payload, decErr := decryptTestRecord(opts.suite, header, body, seq)
		if decErr != nil {
			return fail(decErr)
		}

		echoRecord := &recordlayer.RecordLayer{
			Header:  recordlayer.Header{Version: protocol.Version1_2},
			Content: &protocol.ApplicationData{Data: payload},
		}
		rawEcho, marshalErr := echoRecord.Marshal()
		if marshalErr != nil {
			return fail(marshalErr)
		}
		encryptedEcho, encErr := opts.suite.Encrypt(echoRecord, rawEcho, seq)
		if encErr != nil {
			return fail(encErr)
		}
		if _, err = conn.Write(encryptedEcho); err != nil {
			return fail(err)
		}
	}

	return testServerResult{masterSecret: masterSecret}
}

func hmacEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestClientHandshakeRSA(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	key, certDER := generateTestCertificate(t)
	clientConn, serverConn := pipeForTest(t)

	resultCh := make(chan testServerResult, 1)
	go func() {
		resultCh <- runHandshakeServer(serverConn, key, certDER, testServerOptions{
			suite:      ciphersuite.NewTLSRsaWithAes128CbcSha(),
			echoRounds: 1,
		})
	}()

	client, err := Client(clientConn, &Config{
		CipherSuites:       []CipherSuiteID{TLS_RSA_WITH_AES_128_CBC_SHA},
		InsecureSkipVerify: true,
	})
	require.NoError(t, err)

	state := client.ConnectionState()
	assert.Equal(t, TLS_RSA_WITH_AES_128_CBC_SHA, state.CipherSuiteID())
	assert.NotEmpty(t, state.RemoteCertificate())

	message := []byte("hello over the record layer")
	_, err = client.Write(message)
	require.NoError(t, err)

	echo := make([]byte, len(message))
	_, err = io.ReadFull(client, echo)
	require.NoError(t, err)
	assert.Equal(t, message, echo)

	result := <-resultCh
	require.NoError(t, result.err)

	// Keying material export must match a by-hand RFC 5705 derivation
	ekm, err := client.ExportKeyingMaterial("EXPORTER-test", nil, 16)
	require.NoError(t, err)
	localRandom := state.localRandom.MarshalFixed()
	remoteRandom := state.remoteRandom.MarshalFixed()
	seed := append(append([]byte("EXPORTER-test"), localRandom[:]...), remoteRandom[:]...)
	expected, err := prf.PHash(result.masterSecret, seed, 16, sha256.New)
	require.NoError(t, err)
	assert.Equal(t, expected, ekm)

	_, err = client.ExportKeyingMaterial("master secret", nil, 16)
	assert.ErrorIs(t, err, errReservedExportKeyingMaterial)
	_, err = client.ExportKeyingMaterial("EXPORTER-test", []byte{0x00}, 16)
	assert.ErrorIs(t, err, errContextUnsupported)

	assert.NoError(t, client.Close())
	_, err = client.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrConnClosed)
}

func TestClientHandshakeECDHE(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	key, certDER := generateTestCertificate(t)
	clientConn, serverConn := pipeForTest(t)

	resultCh := make(chan testServerResult, 1)
	go func() {
		resultCh <- runHandshakeServer(serverConn, key, certDER, testServerOptions{
			suite:      ciphersuite.NewTLSEcdheRsaWithAes128GcmSha256(),
			ecdhe:      true,
			echoRounds: 1,
		})
	}()

	client, err := Client(clientConn, &Config{
		CipherSuites:       []CipherSuiteID{TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256},
		InsecureSkipVerify: true,
	})
	require.NoError(t, err)
	state := client.ConnectionState()
	assert.Equal(t, TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, state.CipherSuiteID())

	message := []byte("forward secrecy")
	_, err = client.Write(message)
	require.NoError(t, err)

	echo := make([]byte, len(message))
	_, err = io.ReadFull(client, echo)
	require.NoError(t, err)
	assert.Equal(t, message, echo)

	require.NoError(t, (<-resultCh).err)
	assert.NoError(t, client.Close())
}

func TestClientVerifiesCertificate(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	key, certDER := generateTestCertificate(t)
	cert, err := x509.ParseCertificate(certDER)
	require.NoError(t, err)

	t.Run("Trusted", func(t *testing.T) {
		clientConn, serverConn := pipeForTest(t)
		resultCh := make(chan testServerResult, 1)
		go func() {
			resultCh <- runHandshakeServer(serverConn, key, certDER, testServerOptions{
				suite: ciphersuite.NewTLSRsaWithAes128CbcSha(),
			})
		}()

		roots := x509.NewCertPool()
		roots.AddCert(cert)

		client, clientErr := Client(clientConn, &Config{
			CipherSuites: []CipherSuiteID{TLS_RSA_WITH_AES_128_CBC_SHA},
			RootCAs:      roots,
			ServerName:   "localhost",
		})
		require.NoError(t, clientErr)
		require.NoError(t, (<-resultCh).err)
		assert.True(t, client.ConnectionState().peerCertificatesVerified)
		assert.NoError(t, client.Close())
	})

	t.Run("UnknownAuthority", func(t *testing.T) {
		clientConn, serverConn := pipeForTest(t)
		go func() {
			_ = runHandshakeServer(serverConn, key, certDER, testServerOptions{
				suite: ciphersuite.NewTLSRsaWithAes128CbcSha(),
			})
			_ = serverConn.Close()
		}()

		_, clientErr := Client(clientConn, &Config{
			CipherSuites: []CipherSuiteID{TLS_RSA_WITH_AES_128_CBC_SHA},
			RootCAs:      x509.NewCertPool(),
			ServerName:   "localhost",
		})
		assert.Error(t, clientErr)

		var unknownAuthority x509.UnknownAuthorityError
		assert.ErrorAs(t, clientErr, &unknownAuthority)
	})
}

func TestClientRejectsUnofferedCipherSuite(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	key, certDER := generateTestCertificate(t)
	clientConn, serverConn := pipeForTest(t)

	unoffered := uint16(TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA)
	go func() {
		_ = runHandshakeServer(serverConn, key, certDER, testServerOptions{
			suite:       ciphersuite.NewTLSRsaWithAes128CbcSha(),
			wireSuiteID: &unoffered,
		})
		_ = serverConn.Close()
	}()

	_, err := Client(clientConn, &Config{
		CipherSuites:       []CipherSuiteID{TLS_RSA_WITH_AES_128_CBC_SHA},
		InsecureSkipVerify: true,
	})
	assert.ErrorIs(t, err, errCipherSuiteNoIntersection)
}

func TestClientRejectsBadVerifyData(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	key, certDER := generateTestCertificate(t)
	clientConn, serverConn := pipeForTest(t)

	go func() {
		_ = runHandshakeServer(serverConn, key, certDER, testServerOptions{
			suite:          ciphersuite.NewTLSRsaWithAes128CbcSha(),
			tamperFinished: true,
		})
		_ = serverConn.Close()
	}()

	_, err := Client(clientConn, &Config{
		CipherSuites:       []CipherSuiteID{TLS_RSA_WITH_AES_128_CBC_SHA},
		InsecureSkipVerify: true,
	})
	assert.ErrorIs(t, err, errVerifyDataMismatch)
}

func TestClientRejectsMalformedServerHello(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	clientConn, serverConn := pipeForTest(t)
	go func() {
		if _, _, err := readTestRecord(serverConn); err == nil {
			// ServerHello whose declared body stops short of the fixed
			// version+random fields, inside a well formed record
			content := []byte{0x02, 0x00, 0x00, 0x02, 0x03, 0x03}
			record := append([]byte{0x16, 0x03, 0x03, 0x00, byte(len(content))}, content...)
			_, _ = serverConn.Write(record)
		}
		_, _, _ = readTestRecord(serverConn) // client's fatal alert
		_ = serverConn.Close()
	}()

	_, err := Client(clientConn, &Config{InsecureSkipVerify: true})
	require.Error(t, err)

	// The abort must be immediate, not the connect timeout running out
	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	assert.False(t, netErr.Timeout())
}

func TestClientRejectsEarlyChangeCipherSpec(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	clientConn, serverConn := pipeForTest(t)
	go func() {
		// Answer the ClientHello with a bare ChangeCipherSpec
		if _, _, err := readTestRecord(serverConn); err == nil {
			rec := &recordlayer.RecordLayer{
				Header:  recordlayer.Header{Version: protocol.Version1_2},
				Content: &protocol.ChangeCipherSpec{},
			}
			if raw, marshalErr := rec.Marshal(); marshalErr == nil {
				_, _ = serverConn.Write(raw)
			}
		}
		_, _, _ = readTestRecord(serverConn) // client's fatal alert
		_ = serverConn.Close()
	}()

	_, err := Client(clientConn, &Config{InsecureSkipVerify: true})
	assert.ErrorIs(t, err, errUnexpectedMessage)
}

func TestClientHandshakeTruncatedRecord(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	clientConn, serverConn := pipeForTest(t)
	go func() {
		// A record header cut short by connection close
		if _, _, err := readTestRecord(serverConn); err == nil {
			_, _ = serverConn.Write([]byte{0x16, 0x03, 0x03})
		}
		_ = serverConn.Close()
	}()

	_, err := Client(clientConn, &Config{InsecureSkipVerify: true})
	assert.ErrorIs(t, err, recordlayer.ErrTruncatedRecord)
}

func TestClientHandshakeTimeout(t *testing.T) {
	timeout := test.TimeOut(10 * time.Second)
	defer timeout.Stop()

	clientConn, serverConn := pipeForTest(t)
	defer func() {
		_ = serverConn.Close()
	}()

	_, err := Client(clientConn, &Config{
		InsecureSkipVerify: true,
		ConnectContextMaker: func() (context.Context, func()) {
			return context.WithTimeout(context.Background(), 250*time.Millisecond)
		},
	})
	require.Error(t, err)

	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())
}
