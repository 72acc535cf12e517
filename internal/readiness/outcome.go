package readiness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reason explains why a probe did not report ready.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonTransport
	ReasonVersionMismatch
	ReasonNotUp
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonTransport:
		return "transport failure"
	case ReasonVersionMismatch:
		return "version mismatch"
	case ReasonNotUp:
		return "not up"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Outcome is the result of a single probe. Negative results are values, not
// errors: Err is only set for transport failures and carries their cause.
type Outcome struct {
	Ready      bool
	Reason     Reason
	Served     string // version echoed by the server, if any
	StatusCode int
	Err        error
}

func (o Outcome) String() string {
	if o.Ready {
		return "ready"
	}
	return "not-ready"
}

// Detail renders the reason with whatever context the probe collected.
func (o Outcome) Detail() string {
	switch o.Reason {
	case ReasonNone:
		return ""
	case ReasonTransport:
		if o.Err != nil {
			return fmt.Sprintf("%s: %v", o.Reason, o.Err)
		}
	case ReasonVersionMismatch:
		if o.Served == "" {
			return fmt.Sprintf("%s: no version served", o.Reason)
		}
		return fmt.Sprintf("%s: served %q", o.Reason, o.Served)
	}
	return o.Reason.String()
}

func ready(served string, status int) Outcome {
	return Outcome{Ready: true, Served: served, StatusCode: status}
}

func transportFailure(status int, err error) Outcome {
	return Outcome{Reason: ReasonTransport, StatusCode: status, Err: err}
}

func versionMismatch(served string, status int) Outcome {
	return Outcome{Reason: ReasonVersionMismatch, Served: served, StatusCode: status}
}

func notUp(served string, status int) Outcome {
	return Outcome{Reason: ReasonNotUp, Served: served, StatusCode: status}
}

// Status is the payload served by the extension runner status endpoint.
type Status struct {
	Up Flag `json:"up"`
}

// Flag is a boolean-like JSON value. It accepts true/false, numbers (non-zero
// is true), null, and the strings "true", "1", "yes", "on" and their negatives.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*f = false
		return nil
	case bytes.Equal(b, []byte("true")):
		*f = true
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes", "on":
			*f = true
		case "false", "0", "no", "off", "":
			*f = false
		default:
			return fmt.Errorf("invalid boolean string %q", s)
		}
		return nil
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("invalid boolean value %s", b)
		}
		*f = n != 0
		return nil
	}
}
