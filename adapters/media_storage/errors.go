package media_storage

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"regexp"

	"github.com/MoSamy004/Portfolio/pkg/apperror"
)

const (
	tlsGuidanceS3 = "TLS handshake failure with S3 endpoint. Ensure the endpoint host is correct, " +
		"set S3_ENDPOINT with the /storage/v1/s3 suffix and S3_FORCE_PATH_STYLE=true."
	tlsGuidanceREST = "TLS handshake failure with the storage REST endpoint. Ensure SUPABASE_URL " +
		"(or S3_ENDPOINT) points at the project origin over https."
	transportGuidanceREST = "Could not reach the storage REST endpoint. Check SUPABASE_URL " +
		"(or S3_ENDPOINT) and network access from the server."
	invalidServiceKeyMessage = "Supabase REST PUT failed: Invalid service role key (Invalid Compact JWS). " +
		"Ensure SUPABASE_SERVICE_ROLE_KEY is the service_role key from the project settings and is set in server env."
)

var tlsFailurePattern = regexp.MustCompile(`(?i)tls:|tls alert|ssl routines|ssl3_read_bytes|handshake failure|x509:|EPROTO`)

// isTLSFailure reports whether err came from certificate or handshake
// negotiation rather than from the remote service.
func isTLSFailure(err error) bool {
	if err == nil {
		return false
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuth x509.UnknownAuthorityError
	if errors.As(err, &unknownAuth) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	return tlsFailurePattern.MatchString(err.Error())
}

// classifyTransport maps a request that never got a response.
func classifyTransport(err error, tlsGuidance, fallbackGuidance string) error {
	if isTLSFailure(err) {
		return apperror.NewBadGateway(tlsGuidance, err)
	}
	return apperror.NewBadGateway(fallbackGuidance, err)
}
