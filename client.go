package tls12

import (
	"net"
)

// Client establishes a TLS connection over an existing stream conn,
// acting as the client. It blocks until the handshake completes or
// fails.
func Client(conn net.Conn, config *Config) (*Conn, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	ctx, cancel := config.connectContextMaker()
	defer cancel()

	return createConn(ctx, conn, config)
}

// Dial connects to the given network address and performs a TLS
// handshake, returning the resulting TLS connection.
func Dial(network string, address string, config *Config) (*Conn, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	nextConn, err := net.Dial(network, address)
	if err != nil {
		return nil, err
	}

	conn, err := Client(nextConn, config)
	if err != nil {
		_ = nextConn.Close()
		return nil, err
	}

	return conn, nil
}
