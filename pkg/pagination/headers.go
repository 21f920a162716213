package pagination

// Request headers sent to the bank.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderJWS           = "jws"

	contentTypeJSON = "application/json"
)

// BuildHeaders returns the headers for a transactions request.
// The jws header is only set when a secondary token is present.
func BuildHeaders(authorization, secondaryToken string) map[string]string {
	headers := map[string]string{
		HeaderAuthorization: authorization,
		HeaderContentType:   contentTypeJSON,
		HeaderAccept:        contentTypeJSON,
	}
	if secondaryToken != "" {
		headers[HeaderJWS] = secondaryToken
	}
	return headers
}
