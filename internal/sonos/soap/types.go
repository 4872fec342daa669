package soap

import (
	"fmt"
	"net"
)

// Service identifies a UPnP service hosted by the renderer.
type Service string

const (
	ServiceAVTransport      Service = "AVTransport"
	ServiceRenderingControl Service = "RenderingControl"
)

// DevicePort is the port zone players serve their UPnP control endpoints on.
const DevicePort = "1400"

var serviceTypes = map[Service]string{
	ServiceAVTransport:      "urn:schemas-upnp-org:service:AVTransport:1",
	ServiceRenderingControl: "urn:schemas-upnp-org:service:RenderingControl:1",
}

var controlPaths = map[Service]string{
	ServiceAVTransport:      "/MediaRenderer/AVTransport/Control",
	ServiceRenderingControl: "/MediaRenderer/RenderingControl/Control",
}

// Namespace returns the service type URN used as the action namespace.
func (s Service) Namespace() string {
	return serviceTypes[s]
}

// ControlURL builds the control endpoint for a service on the given host.
// A host that already carries a port is used as-is.
func ControlURL(host string, service Service) (string, error) {
	path := controlPaths[service]
	if path == "" || host == "" {
		return "", fmt.Errorf("unknown service %q or empty host", service)
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, DevicePort)
	}
	return "http://" + host + path, nil
}
