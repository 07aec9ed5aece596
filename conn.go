package tls12

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/conduitsec/tls12/pkg/crypto/prf"
	"github.com/conduitsec/tls12/pkg/crypto/signaturehash"
	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/conduitsec/tls12/pkg/protocol/alert"
	"github.com/conduitsec/tls12/pkg/protocol/handshake"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
	"github.com/pion/logging"
)

var invalidKeyingLabels = map[string]bool{
	"client finished": true,
	"server finished": true,
	"master secret":   true,
	"key expansion":   true,
}

// packet is a single record queued for the wire.
type packet struct {
	record        *recordlayer.RecordLayer
	shouldEncrypt bool
}

// Conn represents a TLS connection.
type Conn struct {
	nextConn net.Conn
	log      logging.LeveledLogger

	state           State
	handshakeCache  *handshakeCache
	handshakeBuffer *handshakeBuffer

	readMu  sync.Mutex
	writeMu sync.Mutex

	// Protected by readMu / writeMu respectively. Each direction keeps
	// its own record counter, reset to zero when that direction's
	// ChangeCipherSpec enables protection.
	localProtectionEnabled  bool
	remoteProtectionEnabled bool
	localSequenceNumber     uint64
	remoteSequenceNumber    uint64

	leftoverAppData []byte

	handshakeCompleted atomic.Bool
	closed             atomic.Bool
	closeOnce          sync.Once
}

func createConn(ctx context.Context, nextConn net.Conn, config *Config) (*Conn, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if nextConn == nil {
		return nil, errNilNextConn
	}

	cipherSuites, err := parseCipherSuites(config.CipherSuites, config.CustomCipherSuites)
	if err != nil {
		return nil, err
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	conn := &Conn{
		nextConn:        nextConn,
		log:             loggerFactory.NewLogger("tls"),
		handshakeCache:  newHandshakeCache(),
		handshakeBuffer: newHandshakeBuffer(),
	}
	conn.state.isClient = true
	conn.state.serverName = config.ServerName

	cfg := &handshakeConfig{
		localCipherSuites:     cipherSuites,
		localSignatureSchemes: signaturehash.Algorithms(),
		ellipticCurves:        []elliptic.Curve{elliptic.X25519, elliptic.P256, elliptic.P384},
		serverName:            config.ServerName,
		insecureSkipVerify:    config.InsecureSkipVerify,
		verifyPeerCertificate: config.VerifyPeerCertificate,
		rootCAs:               config.RootCAs,
		customCipherSuites:    config.CustomCipherSuites,
		log:                   conn.log,
	}

	// The handshake borrows the transport's read deadline so a stalled
	// peer cannot hold the connect forever.
	if deadline, ok := ctx.Deadline(); ok {
		if err := nextConn.SetReadDeadline(deadline); err != nil {
			return nil, netError(err)
		}
		defer func() {
			_ = nextConn.SetReadDeadline(time.Time{})
		}()
	}

	fsm := newHandshakeFSM(&conn.state, conn.handshakeCache, cfg, flight1)
	if err := fsm.Run(ctx, conn, HandshakePreparing); err != nil {
		// Handshake failures are unrecoverable, tear down the transport
		_ = nextConn.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &HandshakeError{Err: errDeadlineExceeded}
		}
		return nil, &HandshakeError{Err: err}
	}
	conn.handshakeCompleted.Store(true)
	conn.log.Trace("Handshake Completed")

	return conn, nil
}

// Read reads application data from the connection.
func (c *Conn) Read(p []byte) (int, error) { //nolint:cyclop
	if c.closed.Load() {
		return 0, ErrConnClosed
	}

	c.readMu.Lock()
	defer c.readMu.Unlock()

	for {
		if len(c.leftoverAppData) > 0 {
			n := copy(p, c.leftoverAppData)
			c.leftoverAppData = c.leftoverAppData[n:]
			return n, nil
		}

		header, content, err := c.readRecord()
		if err != nil {
			return 0, err
		}

		switch header.ContentType {
		case protocol.ContentTypeApplicationData:
			c.leftoverAppData = content
		case protocol.ContentTypeAlert:
			a := &alert.Alert{}
			if err := a.Unmarshal(content); err != nil {
				return 0, netError(err)
			}
			if a.Description == alert.CloseNotify {
				c.closed.Store(true)
				_ = c.nextConn.Close()
				return 0, io.EOF
			}
			if a.Level == alert.Fatal {
				_ = c.nextConn.Close()
				return 0, netError(&alertError{a})
			}
			c.log.Tracef("received warning alert: %s", a.String())
		case protocol.ContentTypeHandshake:
			if err := c.handlePostHandshakeMessage(content); err != nil {
				return 0, err
			}
		case protocol.ContentTypeChangeCipherSpec:
			return 0, netError(errUnexpectedMessage)
		default:
			return 0, netError(errUnhandledContextType)
		}
	}
}

// Write writes application data to the connection.
func (c *Conn) Write(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, ErrConnClosed
	}
	if !c.handshakeCompleted.Load() {
		return 0, errHandshakeInProgress
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	for offset := 0; offset < len(p); {
		chunk := p[offset:]
		if len(chunk) > recordlayer.MaxPlaintextLength {
			chunk = chunk[:recordlayer.MaxPlaintextLength]
		}

		rec := &recordlayer.RecordLayer{
			Header: recordlayer.Header{
				Version: protocol.Version1_2,
			},
			Content: &protocol.ApplicationData{
				Data: chunk,
			},
		}
		if err := c.writeRecord(rec, true); err != nil {
			return offset, err
		}
		offset += len(chunk)
	}

	return len(p), nil
}

// Close sends a close_notify and closes the underlying transport.
func (c *Conn) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.writeMu.Lock()
		rec := &recordlayer.RecordLayer{
			Header: recordlayer.Header{
				Version: protocol.Version1_2,
			},
			Content: &alert.Alert{Level: alert.Warning, Description: alert.CloseNotify},
		}
		// Best effort, the transport may already be gone
		_ = c.writeRecord(rec, c.localProtectionEnabled)
		c.writeMu.Unlock()

		closeErr = c.nextConn.Close()
	})
	return closeErr
}

// ConnectionState returns basic TLS details about the connection.
func (c *Conn) ConnectionState() State {
	return c.state
}

// ExportKeyingMaterial exports keying material from the master secret,
// https://tools.ietf.org/html/rfc5705
func (c *Conn) ExportKeyingMaterial(label string, context []byte, length int) ([]byte, error) {
	if !c.handshakeCompleted.Load() {
		return nil, errHandshakeInProgress
	} else if len(context) != 0 {
		return nil, errContextUnsupported
	} else if _, ok := invalidKeyingLabels[label]; ok {
		return nil, errReservedExportKeyingMaterial
	}

	localRandom := c.state.localRandom.MarshalFixed()
	remoteRandom := c.state.remoteRandom.MarshalFixed()

	seed := []byte(label)
	seed = append(append(seed, localRandom[:]...), remoteRandom[:]...)
	return prf.PHash(c.state.masterSecret, seed, length, c.state.cipherSuite.HashFunc())
}

// LocalAddr implements net.Conn.LocalAddr.
func (c *Conn) LocalAddr() net.Addr {
	return c.nextConn.LocalAddr()
}

// RemoteAddr implements net.Conn.RemoteAddr.
func (c *Conn) RemoteAddr() net.Addr {
	return c.nextConn.RemoteAddr()
}

// SetDeadline implements net.Conn.SetDeadline.
func (c *Conn) SetDeadline(t time.Time) error {
	return c.nextConn.SetDeadline(t)
}

// SetReadDeadline implements net.Conn.SetReadDeadline.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.nextConn.SetReadDeadline(t)
}

// SetWriteDeadline implements net.Conn.SetWriteDeadline.
func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.nextConn.SetWriteDeadline(t)
}

// readRecord reads and, once the peer has switched ciphers, decrypts a
// single record. The caller must hold readMu.
func (c *Conn) readRecord() (recordlayer.Header, []byte, error) {
	rawHeader := make([]byte, recordlayer.HeaderSize)
	if _, err := io.ReadFull(c.nextConn, rawHeader); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return recordlayer.Header{}, nil, recordlayer.ErrTruncatedRecord
		}
		return recordlayer.Header{}, nil, netError(err)
	}

	var header recordlayer.Header
	if err := header.Unmarshal(rawHeader); err != nil {
		return header, nil, err
	}

	body := make([]byte, header.ContentLen)
	if _, err := io.ReadFull(c.nextConn, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return header, nil, recordlayer.ErrTruncatedRecord
		}
		return header, nil, netError(err)
	}

	if header.ContentType == protocol.ContentTypeChangeCipherSpec {
		// Exactly one, and only once we hold keys to switch to
		if c.remoteProtectionEnabled || c.state.cipherSuite == nil || !c.state.cipherSuite.IsInitialized() {
			_ = c.notify(context.Background(), alert.Fatal, alert.UnexpectedMessage)
			_ = c.nextConn.Close()
			return header, nil, netError(errUnexpectedMessage)
		}
		ccs := &protocol.ChangeCipherSpec{}
		if err := ccs.Unmarshal(body); err != nil {
			return header, nil, err
		}
		c.remoteProtectionEnabled = true
		c.remoteSequenceNumber = 0
		return header, body, nil
	}

	if !c.remoteProtectionEnabled {
		return header, body, nil
	}

	decrypted, err := c.state.cipherSuite.Decrypt(header, append(rawHeader, body...), c.remoteSequenceNumber)
	if err != nil {
		_ = c.notify(context.Background(), alert.Fatal, alert.BadRecordMac)
		_ = c.nextConn.Close()
		return header, nil, netError(err)
	}
	c.remoteSequenceNumber++
	if c.remoteSequenceNumber == 0 {
		return header, nil, errSequenceNumberOverflow
	}

	return header, decrypted[recordlayer.HeaderSize:], nil
}

// writeRecord marshals and writes one record. The caller must hold
// writeMu.
func (c *Conn) writeRecord(rec *recordlayer.RecordLayer, shouldEncrypt bool) error {
	raw, err := rec.Marshal()
	if err != nil {
		return err
	}

	if h, ok := rec.Content.(*handshake.Handshake); ok {
		c.handshakeCache.push(raw[recordlayer.HeaderSize:], h.Header.Type, true)
	}

	if shouldEncrypt {
		raw, err = c.state.cipherSuite.Encrypt(rec, raw, c.localSequenceNumber)
		if err != nil {
			return err
		}
		c.localSequenceNumber++
		if c.localSequenceNumber == 0 {
			return errSequenceNumberOverflow
		}
	}

	if _, err := c.nextConn.Write(raw); err != nil {
		return netError(err)
	}

	if _, ok := rec.Content.(*protocol.ChangeCipherSpec); ok {
		c.localProtectionEnabled = true
		c.localSequenceNumber = 0
	}

	return nil
}

// handlePostHandshakeMessage deals with handshake content arriving on
// an established connection. The only message we tolerate is the
// server's HelloRequest, which we decline.
func (c *Conn) handlePostHandshakeMessage(content []byte) error {
	if err := c.handshakeBuffer.push(content); err != nil {
		return netError(err)
	}
	for {
		typ, _, ok := c.handshakeBuffer.pop()
		if !ok {
			return nil
		}
		if typ != handshake.TypeHelloRequest {
			_ = c.nextConn.Close()
			return netError(errUnexpectedMessage)
		}
		c.log.Trace("received HelloRequest, declining renegotiation")
		if err := c.notify(context.Background(), alert.Warning, alert.NoRenegotiation); err != nil {
			return err
		}
	}
}

// notify sends an alert to the peer.
func (c *Conn) notify(_ context.Context, level alert.Level, desc alert.Description) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.writeRecord(&recordlayer.RecordLayer{
		Header: recordlayer.Header{
			Version: protocol.Version1_2,
		},
		Content: &alert.Alert{Level: level, Description: desc},
	}, c.localProtectionEnabled)
}

// writePackets sends one flight. Part of flightConn.
func (c *Conn) writePackets(_ context.Context, pkts []*packet) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	for _, p := range pkts {
		if err := c.writeRecord(p.record, p.shouldEncrypt); err != nil {
			return err
		}
	}
	return nil
}

// readFlight pulls a single record off the wire during the handshake
// and files its content. Part of flightConn.
func (c *Conn) readFlight(_ context.Context) error { //nolint:cyclop
	c.readMu.Lock()
	defer c.readMu.Unlock()

	header, content, err := c.readRecord()
	if err != nil {
		return err
	}

	switch header.ContentType {
	case protocol.ContentTypeHandshake:
		if err := c.handshakeBuffer.push(content); err != nil {
			return err
		}
		for {
			typ, raw, ok := c.handshakeBuffer.pop()
			if !ok {
				break
			}
			if typ == handshake.TypeHelloRequest {
				// Excluded from the transcript, and meaningless mid-handshake
				continue
			}
			c.log.Tracef("[handshake:client] <- %s", typ.String())
			c.handshakeCache.push(raw, typ, false)
		}
	case protocol.ContentTypeChangeCipherSpec:
		// Protection switch already applied by readRecord
		c.log.Trace("[handshake:client] <- ChangeCipherSpec")
	case protocol.ContentTypeAlert:
		a := &alert.Alert{}
		if err := a.Unmarshal(content); err != nil {
			return err
		}
		return &alertError{a}
	case protocol.ContentTypeApplicationData:
		return errApplicationDataBeforeFinished
	default:
		return errUnhandledContextType
	}

	return nil
}
