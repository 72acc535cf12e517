package readiness

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const version = "56664e5"

type fakeHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
	calls  int
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	return f.DoFunc(req)
}

// trackingBody records whether anyone tried to read the payload.
type trackingBody struct {
	r      io.Reader
	read   bool
	closed bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	b.read = true
	return b.r.Read(p)
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func respond(status int, served, body string) (*http.Response, *trackingBody) {
	tb := &trackingBody{r: strings.NewReader(body)}
	h := http.Header{}
	if served != "" {
		h.Set(VersionHeader, served)
	}
	return &http.Response{StatusCode: status, Header: h, Body: tb}, tb
}

func statusServer(t *testing.T, served, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, version, r.Header.Get(VersionHeader))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		if served != "" {
			w.Header().Set(VersionHeader, served)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPProber_Ready(t *testing.T) {
	srv := statusServer(t, version, `{"up":true}`)

	out := NewHTTPProber(srv.Client()).Probe(context.Background(), version, srv.URL+"/status/extensionrunner")

	assert.True(t, out.Ready)
	assert.Equal(t, ReasonNone, out.Reason)
	assert.Equal(t, version, out.Served)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.NoError(t, out.Err)
}

func TestHTTPProber_NotUp(t *testing.T) {
	srv := statusServer(t, version, `{"up":false}`)

	out := NewHTTPProber(srv.Client()).Probe(context.Background(), version, srv.URL)

	assert.False(t, out.Ready)
	assert.Equal(t, ReasonNotUp, out.Reason)
}

func TestHTTPProber_MissingUpFieldIsNotUp(t *testing.T) {
	srv := statusServer(t, version, `{"status":"starting"}`)

	out := NewHTTPProber(srv.Client()).Probe(context.Background(), version, srv.URL)

	assert.False(t, out.Ready)
	assert.Equal(t, ReasonNotUp, out.Reason)
}

func TestHTTPProber_VersionMismatchSkipsBody(t *testing.T) {
	tests := []struct {
		name   string
		served string
	}{
		{"different version", "zzz999"},
		{"no version header", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := respond(http.StatusOK, tt.served, `{"up":true}`)
			client := &fakeHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) { return resp, nil }}

			out := NewHTTPProber(client).Probe(context.Background(), "abc123", "http://localhost/status/extensionrunner")

			assert.False(t, out.Ready)
			assert.Equal(t, ReasonVersionMismatch, out.Reason)
			assert.Equal(t, tt.served, out.Served)
			assert.False(t, body.read, "body must not be read on version mismatch")
			assert.True(t, body.closed)
			assert.Equal(t, 1, client.calls)
		})
	}
}

func TestHTTPProber_TransportFailures(t *testing.T) {
	tests := []struct {
		name   string
		do     func(*http.Request) (*http.Response, error)
		status int
	}{
		{
			name: "network error",
			do: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name: "server error",
			do: func(*http.Request) (*http.Response, error) {
				resp, _ := respond(http.StatusBadGateway, version, `{"up":true}`)
				return resp, nil
			},
			status: http.StatusBadGateway,
		},
		{
			name: "malformed payload",
			do: func(*http.Request) (*http.Response, error) {
				resp, _ := respond(http.StatusOK, version, `<html>oops</html>`)
				return resp, nil
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeHTTPClient{DoFunc: tt.do}

			out := NewHTTPProber(client).Probe(context.Background(), version, "http://localhost")

			assert.False(t, out.Ready)
			assert.Equal(t, ReasonTransport, out.Reason)
			assert.Equal(t, tt.status, out.StatusCode)
			assert.Error(t, out.Err)
		})
	}
}

func TestHTTPProber_InvalidEndpoint(t *testing.T) {
	client := &fakeHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected for an unparseable endpoint")
		return nil, nil
	}}

	out := NewHTTPProber(client).Probe(context.Background(), version, "://missing-scheme")

	assert.Equal(t, ReasonTransport, out.Reason)
	assert.Equal(t, 0, client.calls)
}

func TestHTTPProber_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := NewHTTPProber(nil).Probe(context.Background(), version, url)

	assert.Equal(t, ReasonTransport, out.Reason)
	require.Error(t, out.Err)
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
		wantErr bool
	}{
		{`{"up":true}`, true, false},
		{`{"up":false}`, false, false},
		{`{"up":null}`, false, false},
		{`{"up":1}`, true, false},
		{`{"up":0}`, false, false},
		{`{"up":"true"}`, true, false},
		{`{"up":"YES"}`, true, false},
		{`{"up":"0"}`, false, false},
		{`{"up":""}`, false, false},
		{`{"up":"maybe"}`, false, true},
		{`{"up":[]}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			var s Status
			err := json.Unmarshal([]byte(tt.payload), &s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, bool(s.Up))
		})
	}
}

func TestOutcome_Detail(t *testing.T) {
	assert.Equal(t, "", ready(version, 200).Detail())
	assert.Equal(t, "not up", notUp(version, 200).Detail())
	assert.Equal(t, `version mismatch: served "zzz999"`, versionMismatch("zzz999", 200).Detail())
	assert.Equal(t, "version mismatch: no version served", versionMismatch("", 200).Detail())
	assert.Equal(t, "transport failure: boom", transportFailure(0, errors.New("boom")).Detail())
	assert.Equal(t, "ready", ready(version, 200).String())
	assert.Equal(t, "not-ready", notUp(version, 200).String())
}
