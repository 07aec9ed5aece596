package tls12

import (
	"fmt"
	"hash"

	"github.com/conduitsec/tls12/internal/ciphersuite"
	"github.com/conduitsec/tls12/internal/ciphersuite/types"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
)

// CipherSuiteID is an ID for our supported CipherSuites.
type CipherSuiteID = ciphersuite.ID

// Supported Cipher Suites.
const (
	TLS_RSA_WITH_AES_128_CBC_SHA CipherSuiteID = ciphersuite.TLS_RSA_WITH_AES_128_CBC_SHA //nolint:revive,stylecheck

	TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA   CipherSuiteID = ciphersuite.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA   //nolint:revive,stylecheck
	TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA   CipherSuiteID = ciphersuite.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA   //nolint:revive,stylecheck
	TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA CipherSuiteID = ciphersuite.TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA //nolint:revive,stylecheck

	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256 CipherSuiteID = ciphersuite.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256 //nolint:revive,stylecheck
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256   CipherSuiteID = ciphersuite.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256   //nolint:revive,stylecheck

	TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256 CipherSuiteID = ciphersuite.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256 //nolint:revive,stylecheck
)

// CipherSuiteAuthenticationType controls what authentication method is using during the handshake.
type CipherSuiteAuthenticationType = ciphersuite.AuthenticationType

// AuthenticationType Enums.
const (
	CipherSuiteAuthenticationTypeCertificate CipherSuiteAuthenticationType = ciphersuite.AuthenticationTypeCertificate
	CipherSuiteAuthenticationTypeAnonymous   CipherSuiteAuthenticationType = ciphersuite.AuthenticationTypeAnonymous
)

// KeyExchangeAlgorithm controls what exchange algorithm is using during the handshake.
type KeyExchangeAlgorithm = types.KeyExchangeAlgorithm

// KeyExchangeAlgorithm Enums.
const (
	KeyExchangeAlgorithmNone  KeyExchangeAlgorithm = types.KeyExchangeAlgorithmNone
	KeyExchangeAlgorithmRsa   KeyExchangeAlgorithm = types.KeyExchangeAlgorithmRsa
	KeyExchangeAlgorithmEcdhe KeyExchangeAlgorithm = types.KeyExchangeAlgorithmEcdhe
)

// CipherSuite is an interface that all TLS CipherSuites must satisfy.
type CipherSuite interface {
	// String of CipherSuite, only used for logging.
	String() string

	// ID of CipherSuite.
	ID() CipherSuiteID

	// KeyExchangeAlgorithm controls what exchange algorithm is using during the handshake.
	KeyExchangeAlgorithm() KeyExchangeAlgorithm

	// ECC (Elliptic Curve Cryptography) determines whether ECC extensions
	// will be sent during handshake.
	ECC() bool

	// AuthenticationType controls what authentication method is using during the handshake.
	AuthenticationType() CipherSuiteAuthenticationType

	// HashFunc returns the hashing func used by the PRF for this CipherSuite.
	HashFunc() func() hash.Hash

	// IsInitialized should return true if given CipherSuite has been
	// initialized with a master secret and is able to encrypt/decrypt.
	IsInitialized() bool

	// Init initializes the internal Cipher with keying material.
	Init(masterSecret, clientRandom, serverRandom []byte, isClient bool) error

	// Encrypt takes a single TLS RecordLayer and its unencrypted serialized
	// form and returns the record ready for the wire.
	Encrypt(pkt *recordlayer.RecordLayer, raw []byte, sequenceNumber uint64) ([]byte, error)

	// Decrypt takes a record fragment off the wire and returns the record
	// with a plaintext fragment.
	Decrypt(header recordlayer.Header, in []byte, sequenceNumber uint64) ([]byte, error)
}

// cipherSuiteForID returns the CipherSuite implementation for the given ID.
func cipherSuiteForID(id CipherSuiteID, customCiphers func() []CipherSuite) CipherSuite {
	switch id {
	case TLS_RSA_WITH_AES_128_CBC_SHA:
		return ciphersuite.NewTLSRsaWithAes128CbcSha()
	case TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA:
		return ciphersuite.NewTLSEcdheRsaWithAes128CbcSha()
	case TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA:
		return ciphersuite.NewTLSEcdheRsaWithAes256CbcSha()
	case TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA:
		return ciphersuite.NewTLSEcdheEcdsaWithAes256CbcSha()
	case TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256:
		return ciphersuite.NewTLSEcdheEcdsaWithAes128GcmSha256()
	case TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256:
		return ciphersuite.NewTLSEcdheRsaWithAes128GcmSha256()
	case TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256:
		return &ciphersuite.TLSEcdheRsaWithChaCha20Poly1305Sha256{}
	}

	if customCiphers != nil {
		for _, c := range customCiphers() {
			if c.ID() == id {
				return c
			}
		}
	}

	return nil
}

// defaultCipherSuites is the ordered list we offer when the Config
// names none.
func defaultCipherSuites() []CipherSuite {
	return []CipherSuite{
		ciphersuite.NewTLSEcdheEcdsaWithAes128GcmSha256(),
		ciphersuite.NewTLSEcdheRsaWithAes128GcmSha256(),
		&ciphersuite.TLSEcdheRsaWithChaCha20Poly1305Sha256{},
		ciphersuite.NewTLSEcdheEcdsaWithAes256CbcSha(),
		ciphersuite.NewTLSEcdheRsaWithAes128CbcSha(),
		ciphersuite.NewTLSEcdheRsaWithAes256CbcSha(),
		ciphersuite.NewTLSRsaWithAes128CbcSha(),
	}
}

func allCipherSuites() []CipherSuite {
	return defaultCipherSuites()
}

func cipherSuiteIDs(cipherSuites []CipherSuite) []uint16 {
	rtrn := []uint16{}
	for _, c := range cipherSuites {
		rtrn = append(rtrn, uint16(c.ID()))
	}
	return rtrn
}

func parseCipherSuites(userSelectedSuites []CipherSuiteID, customCipherSuites func() []CipherSuite) ([]CipherSuite, error) {
	cipherSuitesForIDs := func(ids []CipherSuiteID) ([]CipherSuite, error) {
		cipherSuites := []CipherSuite{}
		for _, id := range ids {
			c := cipherSuiteForID(id, nil)
			if c == nil {
				return nil, &invalidCipherSuiteError{id}
			}
			cipherSuites = append(cipherSuites, c)
		}
		return cipherSuites, nil
	}

	var (
		cipherSuites []CipherSuite
		err          error
	)
	if len(userSelectedSuites) != 0 {
		cipherSuites, err = cipherSuitesForIDs(userSelectedSuites)
		if err != nil {
			return nil, err
		}
	} else {
		cipherSuites = defaultCipherSuites()
	}

	// Put CustomCipherSuites before the standard suites, the user
	// took the trouble of providing them.
	if customCipherSuites != nil {
		cipherSuites = append(customCipherSuites(), cipherSuites...)
	}

	if len(cipherSuites) == 0 {
		return nil, errNoAvailableCipherSuites
	}

	return cipherSuites, nil
}

func cipherSuiteString(id CipherSuiteID) string {
	if c := cipherSuiteForID(id, nil); c != nil {
		return c.String()
	}
	return fmt.Sprintf("unknown(%v)", uint16(id))
}
