package tls12

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/binary"
	"time"

	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/conduitsec/tls12/pkg/crypto/hash"
)

// valueKeyMessage builds the exact bytes the server signed in its
// ServerKeyExchange: both hello randoms followed by the ECDHE params.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.3
func valueKeyMessage(clientRandom, serverRandom, publicKey []byte, namedCurve elliptic.Curve) []byte {
	serverECDHParams := make([]byte, 4)
	serverECDHParams[0] = byte(elliptic.CurveTypeNamedCurve)
	binary.BigEndian.PutUint16(serverECDHParams[1:], uint16(namedCurve))
	serverECDHParams[3] = byte(len(publicKey))

	plaintext := []byte{}
	plaintext = append(plaintext, clientRandom...)
	plaintext = append(plaintext, serverRandom...)
	plaintext = append(plaintext, serverECDHParams...)
	plaintext = append(plaintext, publicKey...)

	return plaintext
}

// verifyKeySignature checks the ServerKeyExchange signature against the
// leaf certificate of the chain the server presented.
func verifyKeySignature(message, remoteKeySignature []byte, hashAlgorithm hash.Algorithm, rawCertificates [][]byte) error {
	if len(remoteKeySignature) == 0 {
		return errKeySignatureMismatch
	}

	certs, err := loadCerts(rawCertificates)
	if err != nil {
		return err
	}

	switch p := certs[0].PublicKey.(type) {
	case *ecdsa.PublicKey:
		if !ecdsa.VerifyASN1(p, hashAlgorithm.Digest(message), remoteKeySignature) {
			return errKeySignatureMismatch
		}
		return nil
	case *rsa.PublicKey:
		switch certs[0].SignatureAlgorithm {
		case x509.SHA1WithRSA, x509.SHA256WithRSA, x509.SHA384WithRSA, x509.SHA512WithRSA:
			return rsa.VerifyPKCS1v15(p, hashAlgorithm.CryptoHash(), hashAlgorithm.Digest(message), remoteKeySignature)
		default:
			return errKeySignatureMismatch
		}
	}

	return errKeySignatureMismatch
}

// verifyServerCert builds and validates the chain the server presented.
func verifyServerCert(rawCertificates [][]byte, roots *x509.CertPool, serverName string) ([][]*x509.Certificate, error) {
	certificate, err := loadCerts(rawCertificates)
	if err != nil {
		return nil, err
	}
	intermediateCAPool := x509.NewCertPool()
	for _, cert := range certificate[1:] {
		intermediateCAPool.AddCert(cert)
	}
	opts := x509.VerifyOptions{
		Roots:         roots,
		CurrentTime:   time.Now(),
		DNSName:       serverName,
		Intermediates: intermediateCAPool,
	}
	return certificate[0].Verify(opts)
}

func loadCerts(rawCertificates [][]byte) ([]*x509.Certificate, error) {
	if len(rawCertificates) == 0 {
		return nil, errInvalidCertificate
	}

	certs := make([]*x509.Certificate, 0, len(rawCertificates))
	for _, rawCert := range rawCertificates {
		cert, err := x509.ParseCertificate(rawCert)
		if err != nil {
			return nil, &FatalError{Err: err}
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

// newRSAPreMasterSecret generates the premaster secret for the plain RSA
// key exchange, the offered client version followed by 46 random bytes.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.7.1
func newRSAPreMasterSecret() ([]byte, error) {
	preMasterSecret := make([]byte, 48)
	if _, err := rand.Read(preMasterSecret[2:]); err != nil {
		return nil, err
	}
	preMasterSecret[0] = 0x03
	preMasterSecret[1] = 0x03
	return preMasterSecret, nil
}

// encryptRSAPreMasterSecret encrypts the premaster secret to the
// server's certificate key.
func encryptRSAPreMasterSecret(rawCertificates [][]byte, preMasterSecret []byte) ([]byte, error) {
	certs, err := loadCerts(rawCertificates)
	if err != nil {
		return nil, err
	}

	publicKey, ok := certs[0].PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errInvalidCertificate
	}

	return rsa.EncryptPKCS1v15(rand.Reader, publicKey, preMasterSecret)
}
