package soap

import "fmt"

// SeekUnit selects how a Seek target is interpreted.
type SeekUnit int

const (
	SeekUnitTrackNumber SeekUnit = iota + 1
	SeekUnitRelativeTime
	SeekUnitTimeDelta
)

var seekUnitWire = map[SeekUnit]string{
	SeekUnitTrackNumber:  "TRACK_NR",
	SeekUnitRelativeTime: "REL_TIME",
	SeekUnitTimeDelta:    "TIME_DELTA",
}

// Wire returns the protocol string for the unit.
func (u SeekUnit) Wire() (string, error) {
	return wireString(seekUnitWire, u, "seek unit")
}

func (u SeekUnit) String() string {
	s, _ := u.Wire()
	return s
}

// ParseSeekUnit maps a protocol string back to a SeekUnit. Matching is
// case-sensitive.
func ParseSeekUnit(wire string) (SeekUnit, error) {
	return parseWire(seekUnitWire, wire, "seek unit")
}

// PlayMode is the queue play mode of the transport.
type PlayMode int

const (
	PlayModeNormal PlayMode = iota + 1
	PlayModeRepeatAll
	PlayModeRepeatOne
	PlayModeShuffleNoRepeat
	PlayModeShuffle
	PlayModeShuffleRepeatOne
)

var playModeWire = map[PlayMode]string{
	PlayModeNormal:           "NORMAL",
	PlayModeRepeatAll:        "REPEAT_ALL",
	PlayModeRepeatOne:        "REPEAT_ONE",
	PlayModeShuffleNoRepeat:  "SHUFFLE_NOREPEAT",
	PlayModeShuffle:          "SHUFFLE",
	PlayModeShuffleRepeatOne: "SHUFFLE_REPEAT_ONE",
}

// Wire returns the protocol string for the play mode.
func (m PlayMode) Wire() (string, error) {
	return wireString(playModeWire, m, "play mode")
}

func (m PlayMode) String() string {
	s, _ := m.Wire()
	return s
}

// ParsePlayMode maps a protocol string back to a PlayMode. Matching is
// case-sensitive.
func ParsePlayMode(wire string) (PlayMode, error) {
	return parseWire(playModeWire, wire, "play mode")
}

// ItemClass is the upnp:class of a DIDL-Lite object.
type ItemClass int

const (
	ItemClassMusicTrack ItemClass = iota + 1
	ItemClassAudioBroadcast
	ItemClassAudioItem
	ItemClassPlaylistContainer
	ItemClassMusicAlbum
)

var itemClassWire = map[ItemClass]string{
	ItemClassMusicTrack:        "object.item.audioItem.musicTrack",
	ItemClassAudioBroadcast:    "object.item.audioItem.audioBroadcast",
	ItemClassAudioItem:         "object.item.audioItem",
	ItemClassPlaylistContainer: "object.container.playlistContainer",
	ItemClassMusicAlbum:        "object.container.album.musicAlbum",
}

// Wire returns the protocol string for the class.
func (c ItemClass) Wire() (string, error) {
	return wireString(itemClassWire, c, "item class")
}

func (c ItemClass) String() string {
	s, _ := c.Wire()
	return s
}

// ParseItemClass maps a upnp:class string back to an ItemClass.
func ParseItemClass(wire string) (ItemClass, error) {
	return parseWire(itemClassWire, wire, "item class")
}

func wireString[E comparable](table map[E]string, value E, kind string) (string, error) {
	s, ok := table[value]
	if !ok {
		return "", fmt.Errorf("unknown %s %#v", kind, value)
	}
	return s, nil
}

func parseWire[E comparable](table map[E]string, wire, kind string) (E, error) {
	for value, s := range table {
		if s == wire {
			return value, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("unknown %s %q", kind, wire)
}
