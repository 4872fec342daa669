package sonos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

func TestFetchSnapshot(t *testing.T) {
	exec := newMockExecutor().
		respond("GetTransportInfo", "<CurrentTransportState>PLAYING</CurrentTransportState>").
		respond("GetPositionInfo", "<Track>1</Track><TrackMetaData>&lt;DIDL-Lite&gt;&lt;item&gt;&lt;dc:title xmlns:dc=&quot;http://purl.org/dc/elements/1.1/&quot;&gt;Song&lt;/dc:title&gt;&lt;/item&gt;&lt;/DIDL-Lite&gt;</TrackMetaData>").
		respond("GetMediaInfo", "<NrTracks>4</NrTracks>").
		respond("GetTransportSettings", "<PlayMode>REPEAT_ALL</PlayMode>")

	snap, err := FetchSnapshot(context.Background(), newTestTransport(exec))
	require.NoError(t, err)
	require.Equal(t, "PLAYING", snap.TransportInfo.CurrentTransportState)
	require.Equal(t, uint32(1), snap.PositionInfo.Track)
	require.Equal(t, uint32(4), snap.MediaInfo.NrTracks)
	require.Equal(t, "REPEAT_ALL", snap.TransportSettings.PlayMode)
	require.NotNil(t, snap.NowPlaying)
	require.Equal(t, "Song", snap.NowPlaying.Title)
	require.Empty(t, snap.Errors)
	require.Equal(t, 4, exec.count())
}

func TestFetchSnapshotStoppedSkipsPosition(t *testing.T) {
	exec := newMockExecutor().
		respond("GetTransportInfo", "<CurrentTransportState>STOPPED</CurrentTransportState>").
		respond("GetMediaInfo", "<NrTracks>0</NrTracks>").
		respond("GetTransportSettings", "<PlayMode>NORMAL</PlayMode>")

	snap, err := FetchSnapshot(context.Background(), newTestTransport(exec))
	require.NoError(t, err)
	require.Nil(t, snap.PositionInfo)
	require.Nil(t, snap.NowPlaying)
	require.Equal(t, 3, exec.count())
}

func TestFetchSnapshotPartialFailure(t *testing.T) {
	// GetMediaInfo answers without the required NrTracks.
	exec := newMockExecutor().
		respond("GetTransportInfo", "<CurrentTransportState>PAUSED_PLAYBACK</CurrentTransportState>").
		respond("GetPositionInfo", "<Track>3</Track>").
		respond("GetTransportSettings", "<PlayMode>NORMAL</PlayMode>")

	snap, err := FetchSnapshot(context.Background(), newTestTransport(exec))
	require.NoError(t, err)
	require.Nil(t, snap.MediaInfo)
	require.Contains(t, snap.Errors, "GetMediaInfo")
	require.Equal(t, uint32(3), snap.PositionInfo.Track)
}

func TestFetchSnapshotTransportInfoError(t *testing.T) {
	exec := newMockExecutor()
	exec.err = &soap.TransportError{Action: "GetTransportInfo", Status: 503}

	_, err := FetchSnapshot(context.Background(), newTestTransport(exec))
	var transportErr *soap.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 1, exec.count())
}
