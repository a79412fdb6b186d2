package check

import (
	"github.com/pulsewatch/pulsewatch/internal/errs"
)

// Protocols and methods a check may use.
const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

var allowedMethods = map[string]bool{
	"get":    true,
	"post":   true,
	"put":    true,
	"delete": true,
}

const (
	minTimeoutSeconds = 1
	maxTimeoutSeconds = 5
)

// Check describes one URL to be monitored on behalf of its owning user.
type Check struct {
	ID             string `json:"id"`
	OwnerIdentity  string `json:"ownerIdentity"`
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// Spec carries the caller-supplied fields of a new check.
type Spec struct {
	Protocol       string
	URL            string
	Method         string
	SuccessCodes   []int
	TimeoutSeconds int
}

// validate checks every field of a full spec, failing on the first
// violation.
func (s Spec) validate() error {
	if s.Protocol != ProtocolHTTP && s.Protocol != ProtocolHTTPS {
		return errs.Validation("protocol", "must be http or https")
	}
	if s.URL == "" {
		return errs.Validation("url", "is required")
	}
	if !allowedMethods[s.Method] {
		return errs.Validation("method", "must be one of get, post, put, delete")
	}
	if len(s.SuccessCodes) == 0 {
		return errs.Validation("successCodes", "must not be empty")
	}
	if s.TimeoutSeconds < minTimeoutSeconds || s.TimeoutSeconds > maxTimeoutSeconds {
		return errs.Validation("timeoutSeconds", "must be between 1 and 5")
	}
	return nil
}

// UpdateInput carries the optional fields of a check update; zero values
// mean "leave unchanged". At least one field must be set, and every set
// field is validated under the same rules as creation.
type UpdateInput struct {
	Protocol       string
	URL            string
	Method         string
	SuccessCodes   []int
	TimeoutSeconds int
}

func (in UpdateInput) empty() bool {
	return in.Protocol == "" && in.URL == "" && in.Method == "" &&
		len(in.SuccessCodes) == 0 && in.TimeoutSeconds == 0
}

func (in UpdateInput) validate() error {
	if in.Protocol != "" && in.Protocol != ProtocolHTTP && in.Protocol != ProtocolHTTPS {
		return errs.Validation("protocol", "must be http or https")
	}
	if in.Method != "" && !allowedMethods[in.Method] {
		return errs.Validation("method", "must be one of get, post, put, delete")
	}
	if in.TimeoutSeconds != 0 && (in.TimeoutSeconds < minTimeoutSeconds || in.TimeoutSeconds > maxTimeoutSeconds) {
		return errs.Validation("timeoutSeconds", "must be between 1 and 5")
	}
	return nil
}
