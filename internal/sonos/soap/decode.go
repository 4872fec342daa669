package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	upnp "github.com/huin/goupnp/soap"
	"golang.org/x/net/html/charset"
)

// field binds one response child element to a typed destination.
type field struct {
	name     string
	required bool
	assign   func(text string) error
}

func newDecoder(payload []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(payload))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

type responseElement struct {
	Children []struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	} `xml:",any"`
}

// decodeResponse finds {action}Response in namespace and assigns the declared
// fields. Elements without a declared field are ignored.
func decodeResponse(namespace, action string, payload []byte, fields []field) error {
	root := action + "Response"
	decoder := newDecoder(payload)
	var found *responseElement
	for found == nil {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return &DecodeError{Action: action, Field: root, Err: ErrMissingField}
		}
		if err != nil {
			return &DecodeError{Action: action, Field: root, Err: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != root || se.Name.Space != namespace {
			continue
		}
		var elem responseElement
		if err := decoder.DecodeElement(&elem, &se); err != nil {
			return &DecodeError{Action: action, Field: root, Err: err}
		}
		found = &elem
	}

	values := make(map[string]string, len(found.Children))
	for _, child := range found.Children {
		if _, dup := values[child.XMLName.Local]; !dup {
			values[child.XMLName.Local] = strings.TrimSpace(child.Value)
		}
	}

	for _, f := range fields {
		text, ok := values[f.name]
		if !ok || (!f.required && text == "") {
			if f.required {
				return &DecodeError{Action: action, Field: f.name, Err: ErrMissingField}
			}
			continue
		}
		if err := f.assign(text); err != nil {
			return &DecodeError{Action: action, Field: f.name, Err: err}
		}
	}
	return nil
}

func stringField(name string, required bool, dst *string) field {
	return field{name: name, required: required, assign: func(text string) error {
		*dst = text
		return nil
	}}
}

func uintField(name string, required bool, dst *uint32) field {
	return field{name: name, required: required, assign: func(text string) error {
		v, err := upnp.UnmarshalUi4(text)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}}
}

func intField(name string, required bool, dst *int) field {
	return field{name: name, required: required, assign: func(text string) error {
		v, err := upnp.UnmarshalI4(text)
		if err != nil {
			return err
		}
		*dst = int(v)
		return nil
	}}
}

func durationField(name string, required bool, dst *string) field {
	return field{name: name, required: required, assign: func(text string) error {
		if text != NotImplemented && !durationPattern.MatchString(text) {
			return fmt.Errorf("invalid duration %q", text)
		}
		*dst = text
		return nil
	}}
}

// NotImplemented is reported by devices for time values they do not track.
const NotImplemented = "NOT_IMPLEMENTED"

var durationPattern = regexp.MustCompile(`^\d+:[0-5]\d:[0-5]\d(\.\d+)?$`)

// ParseDuration converts an H+:MM:SS[.F] value to a duration. NOT_IMPLEMENTED
// and the empty string are zero.
func ParseDuration(value string) (time.Duration, error) {
	if value == "" || value == NotImplemented {
		return 0, nil
	}
	if !durationPattern.MatchString(value) {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	parts := strings.SplitN(value, ":", 3)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)), nil
}

// FormatDuration renders a duration as H:MM:SS, the REL_TIME seek format.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// responseDecoder decodes the response of one action.
type responseDecoder func(namespace string, payload []byte) (any, error)

var decoders = map[string]responseDecoder{
	"AddURIToQueue":        wrapDecoder(DecodeAddURIToQueue),
	"GetMediaInfo":         wrapDecoder(DecodeMediaInfo),
	"GetPositionInfo":      wrapDecoder(DecodePositionInfo),
	"GetTransportInfo":     wrapDecoder(DecodeTransportInfo),
	"GetTransportSettings": wrapDecoder(DecodeTransportSettings),
}

func wrapDecoder[T any](fn func(namespace string, payload []byte) (T, error)) responseDecoder {
	return func(namespace string, payload []byte) (any, error) {
		return fn(namespace, payload)
	}
}

// ErrNoDecoder is returned by DecodeFor for actions without a typed response.
var ErrNoDecoder = errors.New("no response decoder for action")

// DecodeFor decodes the response of the named action into its typed model.
func DecodeFor(action, namespace string, payload []byte) (any, error) {
	decode, ok := decoders[action]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoDecoder, action)
	}
	return decode(namespace, payload)
}
