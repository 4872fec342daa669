package sonos

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/strefethen/sonos-transport/internal/api"
	"github.com/strefethen/sonos-transport/internal/apperrors"
	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

// RegisterRoutes wires the transport routes to the router.
func RegisterRoutes(router chi.Router, transport Transport) {
	router.Route("/v1/transport", func(tr chi.Router) {
		tr.Method(http.MethodPost, "/stop", simpleAction("stop", transport.Stop))
		tr.Method(http.MethodPost, "/pause", simpleAction("pause", transport.Pause))
		tr.Method(http.MethodPost, "/next", simpleAction("next", transport.NextTrack))
		tr.Method(http.MethodPost, "/previous", simpleAction("previous", transport.PreviousTrack))

		tr.Method(http.MethodPost, "/play", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var body struct {
				Speed string `json:"speed"`
			}
			if err := api.DecodeJSON(r, &body); err != nil {
				return err
			}
			if err := transport.Play(r.Context(), body.Speed); err != nil {
				return err
			}
			return writeAction(w, "play")
		}))

		tr.Method(http.MethodPost, "/seek", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var body struct {
				Unit   string `json:"unit"`
				Target string `json:"target"`
			}
			if err := api.DecodeJSON(r, &body); err != nil {
				return err
			}
			unit, err := soap.ParseSeekUnit(body.Unit)
			if err != nil {
				return apperrors.NewValidationError("unit must be one of TRACK_NR, REL_TIME, TIME_DELTA", map[string]any{
					"unit": body.Unit,
				})
			}
			if err := transport.Seek(r.Context(), unit, body.Target); err != nil {
				return err
			}
			return writeAction(w, "seek")
		}))

		tr.Method(http.MethodPost, "/play-mode", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var body struct {
				Mode string `json:"mode"`
			}
			if err := api.DecodeJSON(r, &body); err != nil {
				return err
			}
			mode, err := soap.ParsePlayMode(body.Mode)
			if err != nil {
				return apperrors.NewValidationError("mode is not a valid play mode", map[string]any{
					"mode": body.Mode,
				})
			}
			if err := transport.SetPlayMode(r.Context(), mode); err != nil {
				return err
			}
			return writeAction(w, "set_play_mode")
		}))

		tr.Method(http.MethodPost, "/media-url", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var body struct {
				URI      string `json:"uri"`
				Metadata string `json:"metadata"`
			}
			if err := api.DecodeJSON(r, &body); err != nil {
				return err
			}
			if err := transport.SetMediaURL(r.Context(), body.URI, body.Metadata); err != nil {
				return err
			}
			return writeAction(w, "set_media_url")
		}))

		tr.Method(http.MethodPost, "/radio", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var body struct {
				StationID string `json:"station_id"`
				Title     string `json:"title"`
			}
			if err := api.DecodeJSON(r, &body); err != nil {
				return err
			}
			if err := transport.SetTuneInRadio(r.Context(), body.StationID, body.Title); err != nil {
				return err
			}
			return writeAction(w, "set_radio")
		}))

		tr.Route("/queue", func(queue chi.Router) {
			queue.Method(http.MethodDelete, "/", simpleAction("clear_queue", transport.ClearQueue))

			queue.Method(http.MethodDelete, "/{objectID}", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
				// Object ids such as Q:0/3 arrive path-escaped.
				raw, err := url.PathUnescape(chi.URLParam(r, "objectID"))
				if err != nil {
					return apperrors.NewValidationError("objectID is not a valid path segment", nil)
				}
				if err := transport.RemoveTrackFromQueue(r.Context(), QueueItemID(raw)); err != nil {
					return err
				}
				return writeAction(w, "remove_track")
			}))

			queue.Method(http.MethodPost, "/", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
				var body struct {
					URI           string `json:"uri"`
					Metadata      string `json:"metadata"`
					Position      int    `json:"position"`
					EnqueueAsNext bool   `json:"enqueue_as_next"`
				}
				if err := api.DecodeJSON(r, &body); err != nil {
					return err
				}
				if body.URI == "" {
					return apperrors.NewValidationError("uri is required", nil)
				}
				added, err := transport.AddTrackToQueue(r.Context(), body.URI, body.Metadata, body.Position, body.EnqueueAsNext)
				if err != nil {
					return err
				}
				return writeQueueResult(w, added)
			}))

			queue.Method(http.MethodPost, "/stream", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
				var body struct {
					URI           string `json:"uri"`
					Title         string `json:"title"`
					Position      int    `json:"position"`
					EnqueueAsNext bool   `json:"enqueue_as_next"`
				}
				if err := api.DecodeJSON(r, &body); err != nil {
					return err
				}
				if body.URI == "" {
					return apperrors.NewValidationError("uri is required", nil)
				}
				added, err := transport.AddStreamToQueue(r.Context(), body.URI, body.Title, body.Position, body.EnqueueAsNext)
				if err != nil {
					return err
				}
				return writeQueueResult(w, added)
			}))
		})

		tr.Method(http.MethodGet, "/media-info", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			media, err := transport.GetMediaInfo(r.Context())
			if err != nil {
				return err
			}
			return api.WriteResource(w, http.StatusOK, struct {
				Object string `json:"object"`
				soap.GetMediaInfoResponse
			}{"media_info", media})
		}))

		tr.Method(http.MethodGet, "/position-info", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			pos, err := transport.GetPositionInfo(r.Context())
			if err != nil {
				return err
			}
			return api.WriteResource(w, http.StatusOK, struct {
				Object string `json:"object"`
				soap.GetPositionInfoResponse
				ElapsedSeconds  int            `json:"elapsed_seconds"`
				DurationSeconds int            `json:"duration_seconds"`
				NowPlaying      *TrackMetadata `json:"now_playing,omitempty"`
			}{
				Object:                  "position_info",
				GetPositionInfoResponse: pos,
				ElapsedSeconds:          int(pos.Elapsed().Seconds()),
				DurationSeconds:         int(pos.Duration().Seconds()),
				NowPlaying:              ParseTrackMetadata(pos.TrackMetaData),
			})
		}))

		tr.Method(http.MethodGet, "/transport-info", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			info, err := transport.GetTransportInfo(r.Context())
			if err != nil {
				return err
			}
			return api.WriteResource(w, http.StatusOK, struct {
				Object string `json:"object"`
				soap.GetTransportInfoResponse
			}{"transport_info", info})
		}))

		tr.Method(http.MethodGet, "/transport-settings", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			settings, err := transport.GetTransportSettings(r.Context())
			if err != nil {
				return err
			}
			return api.WriteResource(w, http.StatusOK, struct {
				Object string `json:"object"`
				soap.GetTransportSettingsResponse
			}{"transport_settings", settings})
		}))

		tr.Method(http.MethodGet, "/state", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			snapshot, err := FetchSnapshot(r.Context(), transport)
			if err != nil {
				return err
			}
			return api.WriteResource(w, http.StatusOK, struct {
				Object string `json:"object"`
				Snapshot
			}{"transport_state", snapshot})
		}))
	})
}

func simpleAction(action string, run func(ctx context.Context) error) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		if err := run(r.Context()); err != nil {
			return err
		}
		return writeAction(w, action)
	}
}

func writeAction(w http.ResponseWriter, action string) error {
	return api.WriteAction(w, http.StatusOK, map[string]any{
		"object":       "transport_action",
		"action":       action,
		"completed_at": api.RFC3339Millis(time.Now()),
	})
}

func writeQueueResult(w http.ResponseWriter, added soap.AddURIToQueueResponse) error {
	return api.WriteResource(w, http.StatusCreated, struct {
		Object string `json:"object"`
		soap.AddURIToQueueResponse
	}{"queue_addition", added})
}
