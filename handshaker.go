package tls12

import (
	"context"
	"crypto/x509"
	"sync"

	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/conduitsec/tls12/pkg/crypto/signaturehash"
	"github.com/conduitsec/tls12/pkg/protocol/alert"
	"github.com/pion/logging"
)

// HandshakeState is the state of the handshake state machine.
type HandshakeState uint8

// HandshakeState enums.
const (
	HandshakeErrored HandshakeState = iota
	HandshakePreparing
	HandshakeSending
	HandshakeWaiting
	HandshakeFinished
)

func (s HandshakeState) String() string {
	switch s {
	case HandshakeErrored:
		return "Errored"
	case HandshakePreparing:
		return "Preparing"
	case HandshakeSending:
		return "Sending"
	case HandshakeWaiting:
		return "Waiting"
	case HandshakeFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// flightParser inspects the cached peer messages and decides what
// flight comes next. A zero flight means the peer's flight is still
// incomplete.
type flightParser func(context.Context, flightConn, *State, *handshakeCache, *handshakeConfig) (flightVal, *alert.Alert, error)

// flightGenerator builds the records of one of our flights.
type flightGenerator func(flightConn, *State, *handshakeCache, *handshakeConfig) ([]*packet, *alert.Alert, error)

type handshakeFSM struct {
	currentFlight flightVal
	flights       []*packet
	state         *State
	cache         *handshakeCache
	cfg           *handshakeConfig
	closed        chan struct{}
}

type handshakeConfig struct {
	localCipherSuites     []CipherSuite             // Available CipherSuites
	localSignatureSchemes []signaturehash.Algorithm // Available signature schemes
	ellipticCurves        []elliptic.Curve          // Available curves for the ECDHE exchange
	serverName            string
	insecureSkipVerify    bool
	verifyPeerCertificate func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error
	rootCAs               *x509.CertPool
	customCipherSuites    func() []CipherSuite

	onFlightState func(flightVal, HandshakeState)
	log           logging.LeveledLogger

	mu sync.Mutex
}

// flightConn is the subset of Conn the state machine drives.
type flightConn interface {
	notify(ctx context.Context, level alert.Level, desc alert.Description) error
	writePackets(ctx context.Context, pkts []*packet) error
	readFlight(ctx context.Context) error
}

func newHandshakeFSM(
	s *State, cache *handshakeCache, cfg *handshakeConfig,
	initialFlight flightVal,
) *handshakeFSM {
	return &handshakeFSM{
		currentFlight: initialFlight,
		state:         s,
		cache:         cache,
		cfg:           cfg,
		closed:        make(chan struct{}),
	}
}

func (s *handshakeFSM) Run(ctx context.Context, conn flightConn, initialState HandshakeState) error {
	state := initialState
	defer close(s.closed)
	for {
		s.cfg.log.Tracef("[handshake:client] %s: %s", s.currentFlight.String(), state.String())
		if s.cfg.onFlightState != nil {
			s.cfg.onFlightState(s.currentFlight, state)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch state {
		case HandshakePreparing:
			state, err = s.prepare(ctx, conn)
		case HandshakeSending:
			state, err = s.send(ctx, conn)
		case HandshakeWaiting:
			state, err = s.wait(ctx, conn)
		case HandshakeFinished:
			return nil
		default:
			return errInvalidFSMTransition
		}
		if err != nil {
			return err
		}
	}
}

func (s *handshakeFSM) Done() <-chan struct{} {
	return s.closed
}

func (s *handshakeFSM) prepare(ctx context.Context, conn flightConn) (HandshakeState, error) {
	s.flights = nil

	var (
		a    *alert.Alert
		err  error
		pkts []*packet
	)
	gen, errFlight := s.currentFlight.getFlightGenerator()
	if errFlight != nil {
		err = errFlight
		a = &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}
	} else {
		pkts, a, err = gen(conn, s.state, s.cache, s.cfg)
	}
	if a != nil {
		if alertErr := conn.notify(ctx, a.Level, a.Description); alertErr != nil {
			if err == nil {
				err = alertErr
			}
		}
	}
	if err != nil {
		return HandshakeErrored, err
	}

	s.flights = pkts
	return HandshakeSending, nil
}

func (s *handshakeFSM) send(ctx context.Context, conn flightConn) (HandshakeState, error) {
	if err := conn.writePackets(ctx, s.flights); err != nil {
		return HandshakeErrored, err
	}
	return HandshakeWaiting, nil
}

func (s *handshakeFSM) wait(ctx context.Context, conn flightConn) (HandshakeState, error) {
	parse, errFlight := s.currentFlight.getFlightParser()
	if errFlight != nil {
		if alertErr := conn.notify(ctx, alert.Fatal, alert.InternalError); alertErr != nil {
			return HandshakeErrored, alertErr
		}
		return HandshakeErrored, errFlight
	}

	for {
		nextFlight, a, err := parse(ctx, conn, s.state, s.cache, s.cfg)
		if a != nil {
			if alertErr := conn.notify(ctx, a.Level, a.Description); alertErr != nil {
				if err == nil {
					err = alertErr
				}
			}
		}
		if err != nil {
			return HandshakeErrored, err
		}
		if nextFlight != 0 {
			s.cfg.log.Tracef("[handshake:client] %s -> %s", s.currentFlight.String(), nextFlight.String())
			if nextFlight.isLastRecvFlight() && s.currentFlight == nextFlight {
				return HandshakeFinished, nil
			}
			s.currentFlight = nextFlight
			return HandshakePreparing, nil
		}

		// Peer flight incomplete, pull more records off the wire
		if err := conn.readFlight(ctx); err != nil {
			return HandshakeErrored, err
		}
	}
}
