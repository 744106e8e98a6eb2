package feed

import "errors"

// ErrUpstreamStatus indicates the CDN answered with a non-200 status.
var ErrUpstreamStatus = errors.New("unexpected upstream status")
