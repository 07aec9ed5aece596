package tls12

/*
  TLS 1.2 handshake messages are grouped into flights. Over a reliable
  stream there is no cookie exchange and no retransmission, so the
  client only ever produces two flights.

  Client                                          Server

  ClientHello             -------->                           Flight 1

                                             ServerHello    \
                                            Certificate*     \
                                      ServerKeyExchange*      Flight 4
                                     CertificateRequest*     /
                          <--------      ServerHelloDone    /

  ClientKeyExchange                                          \
  [ChangeCipherSpec]                                          Flight 5
  Finished                -------->                          /

                                      [ChangeCipherSpec]    \ Flight 6
                          <--------             Finished    /

  https://tools.ietf.org/html/rfc5246#section-7.3
*/

type flightVal uint8

const (
	flight1 flightVal = iota + 1
	flight5
)

func (f flightVal) String() string {
	switch f {
	case flight1:
		return "Flight 1"
	case flight5:
		return "Flight 5"
	default:
		return "Invalid Flight"
	}
}

func (f flightVal) isLastRecvFlight() bool {
	return f == flight5
}

func (f flightVal) getFlightParser() (flightParser, error) {
	switch f {
	case flight1:
		return flight1Parse, nil
	case flight5:
		return flight5Parse, nil
	default:
		return nil, errInvalidFlight
	}
}

func (f flightVal) getFlightGenerator() (flightGenerator, error) {
	switch f {
	case flight1:
		return flight1Generate, nil
	case flight5:
		return flight5Generate, nil
	default:
		return nil, errInvalidFlight
	}
}
