package common

// AuthorizationHeaderName carries "Bearer <token>" on HTTP requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDMetadataKey propagates the HTTP request id to the account service.
const RequestIDMetadataKey = "x-request-id"
