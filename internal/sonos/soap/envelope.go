package soap

import (
	"encoding/xml"
	"errors"
	"strings"
)

const (
	envelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	encodingStyle     = "http://schemas.xmlsoap.org/soap/encoding/"
)

// ActionRequest is a single action invocation. It is built per call and not
// modified afterwards.
type ActionRequest struct {
	controlURL string
	namespace  string
	action     string
	args       []Argument
}

// NewActionRequest builds a request from an ordered argument list.
func NewActionRequest(controlURL, namespace, action string, args *Args) (ActionRequest, error) {
	if controlURL == "" || namespace == "" || action == "" {
		return ActionRequest{}, errors.New("control url, namespace and action are required")
	}
	list, err := args.List()
	if err != nil {
		return ActionRequest{}, err
	}
	return ActionRequest{
		controlURL: controlURL,
		namespace:  namespace,
		action:     action,
		args:       list,
	}, nil
}

func (r ActionRequest) ControlURL() string { return r.controlURL }
func (r ActionRequest) Namespace() string  { return r.namespace }
func (r ActionRequest) Action() string     { return r.action }

// Args returns a copy of the request arguments.
func (r ActionRequest) Args() []Argument {
	out := make([]Argument, len(r.args))
	copy(out, r.args)
	return out
}

// SOAPAction is the value of the SOAPACTION header.
func (r ActionRequest) SOAPAction() string {
	return `"` + r.namespace + "#" + r.action + `"`
}

// Envelope serializes the request body.
func (r ActionRequest) Envelope() []byte {
	return buildEnvelope(r.namespace, r.action, r.args)
}

func buildEnvelope(serviceType, action string, args []Argument) []byte {
	var buf strings.Builder
	buf.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>")
	buf.WriteString("<s:Envelope xmlns:s=\"" + envelopeNamespace + "\" s:encodingStyle=\"" + encodingStyle + "\">")
	buf.WriteString("<s:Body>")
	buf.WriteString("<u:")
	buf.WriteString(action)
	buf.WriteString(" xmlns:u=\"")
	buf.WriteString(escapeXML(serviceType))
	buf.WriteString("\">")

	for _, arg := range args {
		buf.WriteString("<")
		buf.WriteString(arg.Name)
		buf.WriteString(">")
		buf.WriteString(escapeXML(arg.Value))
		buf.WriteString("</")
		buf.WriteString(arg.Name)
		buf.WriteString(">")
	}

	buf.WriteString("</u:")
	buf.WriteString(action)
	buf.WriteString(">")
	buf.WriteString("</s:Body>")
	buf.WriteString("</s:Envelope>")

	return []byte(buf.String())
}

func escapeXML(input string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(input)); err != nil {
		return input
	}
	return b.String()
}
