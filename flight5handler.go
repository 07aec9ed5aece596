package tls12

import (
	"bytes"
	"context"

	"github.com/conduitsec/tls12/pkg/crypto/prf"
	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/conduitsec/tls12/pkg/protocol/alert"
	"github.com/conduitsec/tls12/pkg/protocol/handshake"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
)

// transcriptRules lists the handshake exchange in wire order, up to but
// not including the client Finished.
func transcriptRules() []handshakeCachePullRule {
	return []handshakeCachePullRule{
		{handshake.TypeClientHello, true, false},
		{handshake.TypeServerHello, false, false},
		{handshake.TypeCertificate, false, true},
		{handshake.TypeServerKeyExchange, false, true},
		{handshake.TypeServerHelloDone, false, false},
		{handshake.TypeClientKeyExchange, true, false},
	}
}

func flight5Generate(_ flightConn, state *State, cache *handshakeCache, _ *handshakeConfig) ([]*packet, *alert.Alert, error) { //nolint:cyclop
	kx := state.cipherSuite.KeyExchangeAlgorithm()

	clientKeyExchange := &handshake.MessageClientKeyExchange{
		KeyExchangeAlgorithm: kx,
	}
	switch {
	case kx.Has(KeyExchangeAlgorithmEcdhe):
		clientKeyExchange.PublicKey = state.localKeypair.PublicKey
	case kx.Has(KeyExchangeAlgorithmRsa):
		preMasterSecret, err := newRSAPreMasterSecret()
		if err != nil {
			return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
		}
		state.preMasterSecret = preMasterSecret

		encrypted, err := encryptRSAPreMasterSecret(state.remoteCertificate, preMasterSecret)
		if err != nil {
			return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
		}
		clientKeyExchange.EncryptedPreMasterSecret = encrypted
	default:
		return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, errInvalidFSMTransition
	}

	keyExchangeHandshake := &handshake.Handshake{
		Message:              clientKeyExchange,
		KeyExchangeAlgorithm: kx,
	}
	keyExchangeRaw, err := keyExchangeHandshake.Marshal()
	if err != nil {
		return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
	}

	localRandom := state.localRandom.MarshalFixed()
	remoteRandom := state.remoteRandom.MarshalFixed()

	state.masterSecret, err = prf.MasterSecret(state.preMasterSecret, localRandom[:], remoteRandom[:], state.cipherSuite.HashFunc())
	if err != nil {
		return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
	}

	if err = state.cipherSuite.Init(state.masterSecret, localRandom[:], remoteRandom[:], true); err != nil {
		return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
	}

	// The ClientKeyExchange is part of the transcript its own Finished
	// covers, but it has not hit the cache yet. Merge it in by hand.
	rules := transcriptRules()
	transcript := append(cache.pullAndMerge(rules[:len(rules)-1]...), keyExchangeRaw...)

	state.localVerifyData, err = prf.VerifyDataClient(state.masterSecret, transcript, state.cipherSuite.HashFunc())
	if err != nil {
		return nil, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
	}

	return []*packet{
		{
			record: &recordlayer.RecordLayer{
				Header: recordlayer.Header{
					Version: protocol.Version1_2,
				},
				Content: keyExchangeHandshake,
			},
		},
		{
			record: &recordlayer.RecordLayer{
				Header: recordlayer.Header{
					Version: protocol.Version1_2,
				},
				Content: &protocol.ChangeCipherSpec{},
			},
		},
		{
			record: &recordlayer.RecordLayer{
				Header: recordlayer.Header{
					Version: protocol.Version1_2,
				},
				Content: &handshake.Handshake{
					Message: &handshake.MessageFinished{
						VerifyData: state.localVerifyData,
					},
				},
			},
			shouldEncrypt: true,
		},
	}, nil, nil
}

func flight5Parse(_ context.Context, _ flightConn, state *State, cache *handshakeCache, _ *handshakeConfig) (flightVal, *alert.Alert, error) {
	msgs, ok, err := cache.fullPullMap(state.cipherSuite.KeyExchangeAlgorithm(),
		handshakeCachePullRule{handshake.TypeFinished, false, false},
	)
	if err != nil {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.DecodeError}, err
	}
	if !ok {
		// Server's encrypted Finished has not arrived yet
		return 0, nil, nil
	}

	finished, ok := msgs[handshake.TypeFinished].(*handshake.MessageFinished)
	if !ok {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, nil
	}

	// The server's verify_data covers the client Finished as well
	rules := append(transcriptRules(),
		handshakeCachePullRule{handshake.TypeFinished, true, false},
	)
	expectedVerifyData, err := prf.VerifyDataServer(state.masterSecret, cache.pullAndMerge(rules...), state.cipherSuite.HashFunc())
	if err != nil {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.InternalError}, err
	}
	if !bytes.Equal(expectedVerifyData, finished.VerifyData) {
		return 0, &alert.Alert{Level: alert.Fatal, Description: alert.HandshakeFailure}, errVerifyDataMismatch
	}

	return flight5, nil, nil
}
