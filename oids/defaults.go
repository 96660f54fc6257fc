package oids

// defaultNames contains object identifiers commonly found in X.509
// certificates, PKCS containers and CMS messages.
var defaultNames = map[string]string{
	// PKCS #1 (RFC 8017)
	"1.2.840.113549.1.1.1":  "rsaEncryption",
	"1.2.840.113549.1.1.5":  "sha1WithRSAEncryption",
	"1.2.840.113549.1.1.10": "rsassa-pss",
	"1.2.840.113549.1.1.11": "sha256WithRSAEncryption",
	"1.2.840.113549.1.1.12": "sha384WithRSAEncryption",
	"1.2.840.113549.1.1.13": "sha512WithRSAEncryption",

	// PKCS #7 and #9
	"1.2.840.113549.1.7.1":  "data",
	"1.2.840.113549.1.7.2":  "signedData",
	"1.2.840.113549.1.7.3":  "envelopedData",
	"1.2.840.113549.1.9.1":  "emailAddress",
	"1.2.840.113549.1.9.3":  "contentType",
	"1.2.840.113549.1.9.4":  "messageDigest",
	"1.2.840.113549.1.9.5":  "signingTime",
	"1.2.840.113549.1.9.14": "extensionRequest",

	// ANSI X9.62 (RFC 5480, RFC 5758)
	"1.2.840.10045.2.1":   "ecPublicKey",
	"1.2.840.10045.3.1.7": "prime256v1",
	"1.3.132.0.34":        "secp384r1",
	"1.3.132.0.35":        "secp521r1",
	"1.2.840.10045.4.3.2": "ecdsa-with-SHA256",
	"1.2.840.10045.4.3.3": "ecdsa-with-SHA384",
	"1.2.840.10045.4.3.4": "ecdsa-with-SHA512",

	// RFC 8410
	"1.3.101.110": "X25519",
	"1.3.101.112": "Ed25519",

	// NIST hash algorithms
	"2.16.840.1.101.3.4.2.1": "sha256",
	"2.16.840.1.101.3.4.2.2": "sha384",
	"2.16.840.1.101.3.4.2.3": "sha512",
	"1.3.14.3.2.26":          "sha1",

	// X.520 attribute types
	"2.5.4.3":  "commonName",
	"2.5.4.4":  "surname",
	"2.5.4.5":  "serialNumber",
	"2.5.4.6":  "countryName",
	"2.5.4.7":  "localityName",
	"2.5.4.8":  "stateOrProvinceName",
	"2.5.4.9":  "streetAddress",
	"2.5.4.10": "organizationName",
	"2.5.4.11": "organizationalUnitName",
	"2.5.4.12": "title",
	"2.5.4.42": "givenName",

	// RFC 4519
	"0.9.2342.19200300.100.1.1":  "userId",
	"0.9.2342.19200300.100.1.25": "domainComponent",

	// X.509 certificate extensions (RFC 5280)
	"2.5.29.14": "subjectKeyIdentifier",
	"2.5.29.15": "keyUsage",
	"2.5.29.17": "subjectAltName",
	"2.5.29.18": "issuerAltName",
	"2.5.29.19": "basicConstraints",
	"2.5.29.30": "nameConstraints",
	"2.5.29.31": "cRLDistributionPoints",
	"2.5.29.32": "certificatePolicies",
	"2.5.29.35": "authorityKeyIdentifier",
	"2.5.29.37": "extKeyUsage",
	"2.5.29.20": "cRLNumber",
	"2.5.29.21": "cRLReason",

	// PKIX (RFC 5280, RFC 6960, RFC 6962)
	"1.3.6.1.5.5.7.1.1":       "authorityInfoAccess",
	"1.3.6.1.5.5.7.3.1":       "serverAuth",
	"1.3.6.1.5.5.7.3.2":       "clientAuth",
	"1.3.6.1.5.5.7.3.3":       "codeSigning",
	"1.3.6.1.5.5.7.3.4":       "emailProtection",
	"1.3.6.1.5.5.7.3.8":       "timeStamping",
	"1.3.6.1.5.5.7.3.9":       "OCSPSigning",
	"1.3.6.1.5.5.7.48.1":      "ocsp",
	"1.3.6.1.5.5.7.48.2":      "caIssuers",
	"1.3.6.1.4.1.11129.2.4.2": "signedCertificateTimestampList",
	"2.23.140.1.2.1":          "domain-validated",
	"2.23.140.1.2.2":          "organization-validated",
}
