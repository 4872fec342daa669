package sonos

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

const (
	// tuneInServiceID is the music service id of TuneIn radio.
	tuneInServiceID = 254
	tuneInFlags     = 8224
	tuneInDesc      = "SA_RINCON65031_"

	didlHeader = `<DIDL-Lite xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:upnp="urn:schemas-upnp-org:metadata-1-0/upnp/" xmlns:r="urn:schemas-rinconnetworks-com:metadata-1-0/" xmlns="urn:schemas-upnp-org:metadata-1-0/DIDL-Lite/">`
	didlFooter = `</DIDL-Lite>`
)

// DIDLItem describes a single playable item.
type DIDLItem struct {
	ID       string
	ParentID string
	Title    string
	Class    soap.ItemClass
	// Desc is the service descriptor carried in the cdudn desc element.
	Desc string
}

// BuildDIDL renders item as a DIDL-Lite document. Text content is HTML
// encoded; the document itself is escaped once more when the envelope is
// serialized.
func BuildDIDL(item DIDLItem) (string, error) {
	class, err := item.Class.Wire()
	if err != nil {
		return "", err
	}
	parent := item.ParentID
	if parent == "" {
		parent = "-1"
	}

	var b strings.Builder
	b.WriteString(didlHeader)
	fmt.Fprintf(&b, `<item id="%s" parentID="%s" restricted="true">`, html.EscapeString(item.ID), html.EscapeString(parent))
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, html.EscapeString(item.Title))
	fmt.Fprintf(&b, `<upnp:class>%s</upnp:class>`, class)
	if item.Desc != "" {
		fmt.Fprintf(&b, `<desc id="cdudn" nameSpace="urn:schemas-rinconnetworks-com:metadata-1-0/">%s</desc>`, html.EscapeString(item.Desc))
	}
	b.WriteString(`</item>`)
	b.WriteString(didlFooter)
	return b.String(), nil
}

// TuneInURI builds the stream URI of a TuneIn station, e.g. "s24939".
func TuneInURI(stationID string) string {
	return fmt.Sprintf("x-sonosapi-stream:%s?sid=%d&flags=%d&sn=0", stationID, tuneInServiceID, tuneInFlags)
}

// TuneInMetadata builds the DIDL-Lite metadata of a TuneIn station.
func TuneInMetadata(stationID, title string) (string, error) {
	return BuildDIDL(DIDLItem{
		ID:       "F00092020" + stationID,
		ParentID: "L",
		Title:    title,
		Class:    soap.ItemClassAudioBroadcast,
		Desc:     tuneInDesc,
	})
}

// TrackMetadata is the subset of DIDL-Lite track metadata surfaced to callers.
type TrackMetadata struct {
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	AlbumArtURI string `json:"album_art_uri,omitempty"`
	Class       string `json:"class,omitempty"`
}

// ParseTrackMetadata reads the first item or container of a DIDL-Lite
// document. It returns nil for empty or NOT_IMPLEMENTED metadata.
func ParseTrackMetadata(didlXML string) *TrackMetadata {
	if strings.TrimSpace(didlXML) == "" || didlXML == soap.NotImplemented {
		return nil
	}

	decoder := xml.NewDecoder(bytes.NewReader([]byte(didlXML)))
	var currentElement string
	var inItem bool
	item := &TrackMetadata{}

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch elem := token.(type) {
		case xml.StartElement:
			local := elem.Name.Local
			if local == "item" || local == "container" {
				inItem = true
				continue
			}
			if inItem {
				currentElement = local
			}
		case xml.EndElement:
			if !inItem {
				continue
			}
			currentElement = ""
			if elem.Name.Local == "item" || elem.Name.Local == "container" {
				return nonEmpty(item)
			}
		case xml.CharData:
			if !inItem {
				continue
			}
			value := strings.TrimSpace(string(elem))
			if value == "" {
				continue
			}
			switch currentElement {
			case "title":
				setOnce(&item.Title, value)
			case "creator", "albumArtist", "artist":
				setOnce(&item.Artist, value)
			case "album":
				setOnce(&item.Album, value)
			case "albumArtURI":
				setOnce(&item.AlbumArtURI, value)
			case "class":
				setOnce(&item.Class, value)
			}
		}
	}
	return nonEmpty(item)
}

func setOnce(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func nonEmpty(item *TrackMetadata) *TrackMetadata {
	if *item == (TrackMetadata{}) {
		return nil
	}
	return item
}
