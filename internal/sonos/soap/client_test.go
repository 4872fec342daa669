package soap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, url, action string, args *Args) ActionRequest {
	t.Helper()
	req, err := NewActionRequest(url, avtNS, action, args)
	require.NoError(t, err)
	return req
}

func TestInvokeSuccess(t *testing.T) {
	body := responseEnvelope("Play", "")
	dev := newFakeDevice(t, http.StatusOK, body)
	client := NewClient(5 * time.Second)

	outcome, err := client.Invoke(context.Background(), newRequest(t, dev.URL, "Play", InstanceArgs().Text("Speed", "1")))
	require.NoError(t, err)
	require.False(t, outcome.Failed())
	require.Equal(t, body, string(outcome.Body))

	calls := dev.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, `"urn:schemas-upnp-org:service:AVTransport:1#Play"`, calls[0].SOAPAction)
	require.Contains(t, calls[0].ContentType, "text/xml")
	require.Contains(t, calls[0].Body, "<InstanceID>0</InstanceID><Speed>1</Speed>")
}

func TestInvokeFault(t *testing.T) {
	dev := newFakeDevice(t, http.StatusInternalServerError, faultEnvelope("402", "Invalid Args"))
	client := NewClient(5 * time.Second)

	outcome, err := client.Invoke(context.Background(), newRequest(t, dev.URL, "Seek", InstanceArgs()))
	require.NoError(t, err)
	require.True(t, outcome.Failed())
	require.Nil(t, outcome.Body)
	require.Equal(t, 402, outcome.Fault.Code)
	require.Equal(t, "Invalid Args", outcome.Fault.Description)
	require.Contains(t, string(outcome.Fault.Detail), "<errorCode>402</errorCode>")
}

func TestExecuteFaultIsDeviceFault(t *testing.T) {
	dev := newFakeDevice(t, http.StatusInternalServerError, faultEnvelope("402", "Invalid Args"))
	client := NewClient(5 * time.Second)

	_, err := client.Execute(context.Background(), newRequest(t, dev.URL, "Seek", InstanceArgs()))
	var fault *DeviceFault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, 402, fault.Code)
	require.Equal(t, "Invalid Args", fault.Description)
	require.Equal(t, "Seek", fault.Action)

	var transportErr *TransportError
	require.False(t, errors.As(err, &transportErr))
}

func TestInvokeFaultInSuccessStatus(t *testing.T) {
	dev := newFakeDevice(t, http.StatusOK, faultEnvelope("701", "Transition not available"))
	client := NewClient(5 * time.Second)

	outcome, err := client.Invoke(context.Background(), newRequest(t, dev.URL, "Next", InstanceArgs()))
	require.NoError(t, err)
	require.True(t, outcome.Failed())
	require.Equal(t, 701, outcome.Fault.Code)
}

func TestInvokeTransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error without fault", http.StatusInternalServerError, "oops"},
		{"not found", http.StatusNotFound, ""},
		{"fault without detail", http.StatusInternalServerError,
			`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><s:Fault><faultcode>s:Client</faultcode></s:Fault></s:Body></s:Envelope>`},
		{"non numeric error code", http.StatusInternalServerError, faultEnvelope("abc", "Invalid Args")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dev := newFakeDevice(t, tc.status, tc.body)
			client := NewClient(5 * time.Second)

			_, err := client.Invoke(context.Background(), newRequest(t, dev.URL, "Stop", InstanceArgs()))
			var transportErr *TransportError
			require.ErrorAs(t, err, &transportErr)
			require.Equal(t, tc.status, transportErr.Status)
			require.Equal(t, "Stop", transportErr.Action)

			var fault *DeviceFault
			require.False(t, errors.As(err, &fault))
		})
	}
}

func TestInvokeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(5 * time.Second)
	_, err := client.Invoke(context.Background(), newRequest(t, url, "Pause", InstanceArgs()))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Zero(t, transportErr.Status)
	require.False(t, transportErr.Timeout())
}

func TestInvokeContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(0)
	_, err := client.Invoke(ctx, newRequest(t, srv.URL, "GetTransportInfo", InstanceArgs()))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.True(t, transportErr.Timeout())
}

type countingDoer struct {
	calls int
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("no network in tests")
}

func TestNewClientWithDoer(t *testing.T) {
	doer := &countingDoer{}
	client := NewClientWithDoer(doer)

	_, err := client.Execute(context.Background(), newRequest(t, "http://device/control", "Stop", InstanceArgs()))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 1, doer.calls)
}
