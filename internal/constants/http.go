package constants

const (
	APIFieldRequestID = "request_id"
)

const (
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeJSON        = "application/json"
	ContentTypeProblemJSON = "application/problem+json"
	ContentTypeForm        = "application/x-www-form-urlencoded"
	ContentTypeHTML        = "text/html; charset=utf-8"
	ContentTypeTextUTF8    = "text/plain; charset=utf-8"
	ContentTypeText        = "text/plain"
	ContentTypeXML         = "application/xml" // prefer over text/xml
)

const (
	HeaderAccept             = "Accept"
	HeaderAcceptEncoding     = "Accept-Encoding"
	HeaderAuthorization      = "Authorization"
	HeaderCacheControl       = "Cache-Control"
	HeaderConnection         = "Connection"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentEncoding    = "Content-Encoding"
	HeaderContentLength      = "Content-Length"
	HeaderContentType        = "Content-Type"
	HeaderContentDigest      = "Content-Digest"
	HeaderETag               = "ETag"
	HeaderHost               = "Host"
	HeaderLocation           = "Location"
	HeaderOrigin             = "Origin"
	HeaderRetryAfter         = "Retry-After"
	HeaderServer             = "Server"
	HeaderUpgrade            = "Upgrade"
	HeaderUserAgent          = "User-Agent"
	HeaderVary               = "Vary"

	// CORS / Proxy-related
	HeaderAccessControlAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAccessControlAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAccessControlExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderAccessControlMaxAge           = "Access-Control-Max-Age"

	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderXForwardedHost  = "X-Forwarded-Host"
	HeaderXForwardedProto = "X-Forwarded-Proto"

	// Common X- headers
	HeaderXAPIKey             = "X-API-Key" // #nosec G101
	HeaderXRequestID          = "X-Request-ID"
	HeaderXRequestedWith      = "X-Requested-With"
	HeaderXContentTypeOptions = "X-Content-Type-Options" // nosniff
	HeaderXFrameOptions       = "X-Frame-Options"
)
