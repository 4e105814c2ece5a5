package remote

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("set store healthcheck failed")
	ErrUnexpectedStatus             = errors.New("remote check returned an unexpected status")
	ErrMalformedReply               = errors.New("remote check returned a malformed reply")
	ErrEmptyEndpoint                = errors.New("empty remote endpoint")
)
