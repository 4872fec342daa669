package soap

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/mdzio/go-logging"
)

// LOG_LEVEL: OFF, ERROR, WARNING, INFO, DEBUG, TRACE
func init() {
	var l logging.LogLevel
	if err := l.Set(os.Getenv("LOG_LEVEL")); err == nil {
		logging.SetLevel(l)
	}
}

const avtNS = "urn:schemas-upnp-org:service:AVTransport:1"

// recordedCall is one request seen by a fake device.
type recordedCall struct {
	SOAPAction  string
	ContentType string
	Body        string
}

type fakeDevice struct {
	*httptest.Server
	mu    sync.Mutex
	calls []recordedCall
}

// newFakeDevice starts a device that answers every request with status and
// body.
func newFakeDevice(t *testing.T, status int, body string) *fakeDevice {
	t.Helper()
	dev := &fakeDevice{}
	dev.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		dev.mu.Lock()
		dev.calls = append(dev.calls, recordedCall{
			SOAPAction:  r.Header.Get("SOAPACTION"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(payload),
		})
		dev.mu.Unlock()
		w.Header().Set("Content-Type", "text/xml; charset=\"utf-8\"")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(dev.Close)
	return dev
}

func (d *fakeDevice) Calls() []recordedCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]recordedCall, len(d.calls))
	copy(out, d.calls)
	return out
}

func responseEnvelope(action, inner string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` +
		`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">` +
		`<s:Body><u:` + action + `Response xmlns:u="` + avtNS + `">` + inner +
		`</u:` + action + `Response></s:Body></s:Envelope>`
}

func faultEnvelope(code, description string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` +
		`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">` +
		`<s:Body><s:Fault><faultcode>s:Client</faultcode><faultstring>UPnPError</faultstring>` +
		`<detail><UPnPError xmlns="urn:schemas-upnp-org:control-1-0"><errorCode>` + code +
		`</errorCode><errorDescription>` + description + `</errorDescription></UPnPError></detail>` +
		`</s:Fault></s:Body></s:Envelope>`
}
