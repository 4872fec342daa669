package sonos

import (
	"context"
	"sync"

	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

// Snapshot holds the playback state of one renderer.
type Snapshot struct {
	TransportInfo     *soap.GetTransportInfoResponse     `json:"transport_info,omitempty"`
	PositionInfo      *soap.GetPositionInfoResponse      `json:"position_info,omitempty"`
	MediaInfo         *soap.GetMediaInfoResponse         `json:"media_info,omitempty"`
	TransportSettings *soap.GetTransportSettingsResponse `json:"transport_settings,omitempty"`
	NowPlaying        *TrackMetadata                     `json:"now_playing,omitempty"`
	Errors            map[string]string                  `json:"errors,omitempty"`
}

// FetchSnapshot queries the renderer state. Transport info is fetched first;
// position info is skipped while the transport is STOPPED since there is no
// track progress to report. The remaining queries run in parallel and a
// failing query only leaves its part empty. The transport info error is
// returned as is.
func FetchSnapshot(ctx context.Context, transport Transport) (Snapshot, error) {
	result := Snapshot{}

	info, err := transport.GetTransportInfo(ctx)
	if err != nil {
		return result, err
	}
	result.TransportInfo = &info
	skipPositionInfo := info.CurrentTransportState == "STOPPED"

	var wg sync.WaitGroup
	var mu sync.Mutex
	fail := func(action string, err error) {
		trLog.Debugf("Snapshot %s failed: %v", action, err)
		if result.Errors == nil {
			result.Errors = map[string]string{}
		}
		result.Errors[action] = err.Error()
	}

	if !skipPositionInfo {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pos, err := transport.GetPositionInfo(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fail("GetPositionInfo", err)
				return
			}
			result.PositionInfo = &pos
			result.NowPlaying = ParseTrackMetadata(pos.TrackMetaData)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		media, err := transport.GetMediaInfo(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fail("GetMediaInfo", err)
			return
		}
		result.MediaInfo = &media
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		settings, err := transport.GetTransportSettings(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fail("GetTransportSettings", err)
			return
		}
		result.TransportSettings = &settings
	}()

	wg.Wait()
	return result, nil
}
