package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdzio/go-logging"
)

// max. size of a response body: 4 MB
const responseSizeLimit = 4 * 1024 * 1024

var clnLog = logging.Get("soap-client")

// HTTPDoer sends HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client invokes UPnP actions. It is safe for concurrent use.
type Client struct {
	httpClient HTTPDoer
}

// NewClient creates a SOAP client with the given timeout. A zero timeout
// leaves bounding latency to the caller's context.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithDoer creates a client on top of an existing HTTP transport.
func NewClientWithDoer(doer HTTPDoer) *Client {
	return &Client{httpClient: doer}
}

// Fault is a UPnP error reported by the device.
type Fault struct {
	Code        int
	Description string
	Detail      []byte
}

// Outcome is the result of an invocation that reached the device: either a
// success body or a fault, never both.
type Outcome struct {
	Body  []byte
	Fault *Fault
}

// Failed reports whether the device answered with a fault.
func (o Outcome) Failed() bool {
	return o.Fault != nil
}

// Invoke posts the request and classifies the answer. Network and protocol
// failures are returned as *TransportError; device faults are returned in the
// Outcome.
func (c *Client) Invoke(ctx context.Context, req ActionRequest) (Outcome, error) {
	action := req.Action()
	callID := uuid.NewString()
	body := req.Envelope()
	if clnLog.TraceEnabled() {
		clnLog.Tracef("%s [%s] request to %s: %s", action, callID, req.ControlURL(), body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.ControlURL(), bytes.NewReader(body))
	if err != nil {
		return Outcome{}, &TransportError{Action: action, Err: err}
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=\"utf-8\"")
	httpReq.Header.Set("SOAPACTION", req.SOAPAction())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		clnLog.Debugf("%s [%s] failed: %v", action, callID, err)
		return Outcome{}, &TransportError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, responseSizeLimit))
	if err != nil {
		return Outcome{}, &TransportError{Action: action, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if clnLog.TraceEnabled() {
		clnLog.Tracef("%s [%s] status %d: %s", action, callID, resp.StatusCode, payload)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	fault, found, err := parseSoapFault(payload)
	switch {
	case found && err == nil:
		return Outcome{Fault: fault}, nil
	case found:
		return Outcome{}, &TransportError{Action: action, Status: resp.StatusCode, Err: err}
	case !success:
		return Outcome{}, &TransportError{Action: action, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return Outcome{Body: payload}, nil
}

// Execute invokes the request and folds a device fault into a *DeviceFault
// error.
func (c *Client) Execute(ctx context.Context, req ActionRequest) ([]byte, error) {
	outcome, err := c.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	if outcome.Failed() {
		return nil, &DeviceFault{
			Action:      req.Action(),
			Code:        outcome.Fault.Code,
			Description: outcome.Fault.Description,
			Detail:      outcome.Fault.Detail,
		}
	}
	return outcome.Body, nil
}

type faultDetail struct {
	Raw       []byte `xml:",innerxml"`
	UPnPError struct {
		Code        string `xml:"errorCode"`
		Description string `xml:"errorDescription"`
	} `xml:"UPnPError"`
}

// parseSoapFault looks for a SOAP Fault in the body. found is false when the
// body carries no Fault element; err is set when a Fault is present but lacks
// a usable UPnP error code.
func parseSoapFault(payload []byte) (fault *Fault, found bool, err error) {
	decoder := newDecoder(payload)
	for {
		tok, tokErr := decoder.Token()
		if tokErr != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case se.Name.Local == "Fault" && se.Name.Space == envelopeNamespace:
			found = true
		case found && se.Name.Local == "detail":
			var detail faultDetail
			if err := decoder.DecodeElement(&detail, &se); err != nil {
				return nil, true, fmt.Errorf("malformed fault detail: %w", err)
			}
			codeText := strings.TrimSpace(detail.UPnPError.Code)
			code, convErr := strconv.Atoi(codeText)
			if convErr != nil {
				return nil, true, fmt.Errorf("malformed fault error code %q", codeText)
			}
			return &Fault{
				Code:        code,
				Description: strings.TrimSpace(detail.UPnPError.Description),
				Detail:      bytes.TrimSpace(detail.Raw),
			}, true, nil
		}
	}
	if found {
		return nil, true, errors.New("fault without UPnP error detail")
	}
	return nil, false, nil
}
