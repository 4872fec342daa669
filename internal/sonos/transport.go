package sonos

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/mdzio/go-logging"

	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

var trLog = logging.Get("transport")

// DefaultSpeed is the Play speed sent when the caller gives none.
const DefaultSpeed = "1"

// QueueItemID references a queue entry by its object id, e.g. "Q:0/3". It is
// only ever obtained from the device.
type QueueItemID string

// Transport is the playback and queue control surface of a renderer.
type Transport interface {
	Stop(ctx context.Context) error
	Pause(ctx context.Context) error
	Play(ctx context.Context, speed string) error
	NextTrack(ctx context.Context) error
	PreviousTrack(ctx context.Context) error
	Seek(ctx context.Context, unit soap.SeekUnit, target string) error
	SeekTrack(ctx context.Context, track int) error
	SeekTime(ctx context.Context, position time.Duration) error
	ClearQueue(ctx context.Context) error
	RemoveTrackFromQueue(ctx context.Context, id QueueItemID) error
	AddTrackToQueue(ctx context.Context, uri, metadata string, desiredFirstTrack int, enqueueAsNext bool) (soap.AddURIToQueueResponse, error)
	AddStreamToQueue(ctx context.Context, uri, title string, desiredFirstTrack int, enqueueAsNext bool) (soap.AddURIToQueueResponse, error)
	SetPlayMode(ctx context.Context, mode soap.PlayMode) error
	GetMediaInfo(ctx context.Context) (soap.GetMediaInfoResponse, error)
	GetPositionInfo(ctx context.Context) (soap.GetPositionInfoResponse, error)
	GetTransportInfo(ctx context.Context) (soap.GetTransportInfoResponse, error)
	GetTransportSettings(ctx context.Context) (soap.GetTransportSettingsResponse, error)
	SetMediaURL(ctx context.Context, uri, metadata string) error
	SetTuneInRadio(ctx context.Context, stationID, title string) error
}

// Executor runs a single action request. *soap.Client implements it.
type Executor interface {
	Execute(ctx context.Context, req soap.ActionRequest) ([]byte, error)
}

// AVTransport drives the AVTransport service of one device.
type AVTransport struct {
	exec       Executor
	controlURL string
	namespace  string
	ids        IDSource
}

var _ Transport = (*AVTransport)(nil)

// Option customizes an AVTransport.
type Option func(*AVTransport)

// WithIDSource replaces the random source used for generated item ids.
func WithIDSource(ids IDSource) Option {
	return func(t *AVTransport) {
		t.ids = ids
	}
}

// NewAVTransport creates a facade for the control URL.
func NewAVTransport(exec Executor, controlURL string, opts ...Option) *AVTransport {
	t := &AVTransport{
		exec:       exec,
		controlURL: controlURL,
		namespace:  soap.ServiceAVTransport.Namespace(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.ids == nil {
		t.ids = defaultIDSource()
	}
	return t
}

// NewAVTransportForHost creates a facade for the device at host.
func NewAVTransportForHost(exec Executor, host string, opts ...Option) (*AVTransport, error) {
	controlURL, err := soap.ControlURL(host, soap.ServiceAVTransport)
	if err != nil {
		return nil, err
	}
	return NewAVTransport(exec, controlURL, opts...), nil
}

// ControlURL returns the endpoint actions are posted to.
func (t *AVTransport) ControlURL() string {
	return t.controlURL
}

func (t *AVTransport) call(ctx context.Context, action string, args *soap.Args) ([]byte, error) {
	req, err := soap.NewActionRequest(t.controlURL, t.namespace, action, args)
	if err != nil {
		return nil, &soap.InvalidArgumentError{Op: action, Field: "arguments", Reason: err.Error()}
	}
	trLog.Debugf("Invoking %s on %s", action, t.controlURL)
	return t.exec.Execute(ctx, req)
}

func query[T any](ctx context.Context, t *AVTransport, action string, decode func(string, []byte) (T, error)) (T, error) {
	payload, err := t.call(ctx, action, soap.InstanceArgs())
	if err != nil {
		var zero T
		return zero, err
	}
	return decode(t.namespace, payload)
}

func (t *AVTransport) Stop(ctx context.Context) error {
	_, err := t.call(ctx, "Stop", soap.InstanceArgs())
	return err
}

func (t *AVTransport) Pause(ctx context.Context) error {
	_, err := t.call(ctx, "Pause", soap.InstanceArgs())
	return err
}

// Play starts or resumes playback. An empty speed plays at DefaultSpeed.
func (t *AVTransport) Play(ctx context.Context, speed string) error {
	if speed == "" {
		speed = DefaultSpeed
	}
	_, err := t.call(ctx, "Play", soap.InstanceArgs().Text("Speed", speed))
	return err
}

func (t *AVTransport) NextTrack(ctx context.Context) error {
	_, err := t.call(ctx, "Next", soap.InstanceArgs())
	return err
}

func (t *AVTransport) PreviousTrack(ctx context.Context) error {
	_, err := t.call(ctx, "Previous", soap.InstanceArgs())
	return err
}

func (t *AVTransport) Seek(ctx context.Context, unit soap.SeekUnit, target string) error {
	if _, err := unit.Wire(); err != nil {
		return &soap.InvalidArgumentError{Op: "Seek", Field: "Unit", Reason: err.Error()}
	}
	if target == "" {
		return &soap.InvalidArgumentError{Op: "Seek", Field: "Target", Reason: "must not be empty"}
	}
	_, err := t.call(ctx, "Seek", soap.InstanceArgs().Enum("Unit", unit).Text("Target", target))
	return err
}

// SeekTrack jumps to a 1-based queue position.
func (t *AVTransport) SeekTrack(ctx context.Context, track int) error {
	if track < 1 {
		return &soap.InvalidArgumentError{Op: "Seek", Field: "Target", Reason: "track number must be at least 1"}
	}
	return t.Seek(ctx, soap.SeekUnitTrackNumber, strconv.Itoa(track))
}

// SeekTime moves within the current track.
func (t *AVTransport) SeekTime(ctx context.Context, position time.Duration) error {
	if position < 0 {
		return &soap.InvalidArgumentError{Op: "Seek", Field: "Target", Reason: "position must not be negative"}
	}
	return t.Seek(ctx, soap.SeekUnitRelativeTime, soap.FormatDuration(position))
}

func (t *AVTransport) ClearQueue(ctx context.Context) error {
	_, err := t.call(ctx, "RemoveAllTracksFromQueue", soap.InstanceArgs())
	return err
}

func (t *AVTransport) RemoveTrackFromQueue(ctx context.Context, id QueueItemID) error {
	if id == "" {
		return &soap.InvalidArgumentError{Op: "RemoveTrackFromQueue", Field: "ObjectID", Reason: "must not be empty"}
	}
	_, err := t.call(ctx, "RemoveTrackFromQueue", soap.InstanceArgs().
		Text("ObjectID", string(id)).
		Uint("UpdateID", 0))
	return err
}

// AddTrackToQueue enqueues uri. desiredFirstTrack 0 appends to the end of
// the queue.
func (t *AVTransport) AddTrackToQueue(ctx context.Context, uri, metadata string, desiredFirstTrack int, enqueueAsNext bool) (soap.AddURIToQueueResponse, error) {
	if desiredFirstTrack < 0 || uint64(desiredFirstTrack) > math.MaxUint32 {
		return soap.AddURIToQueueResponse{}, &soap.InvalidArgumentError{
			Op:     "AddTrackToQueue",
			Field:  "DesiredFirstTrackNumberEnqueued",
			Reason: "must be between 0 and 4294967295",
		}
	}
	args := soap.InstanceArgs().
		Text("EnqueuedURI", uri).
		Text("EnqueuedURIMetaData", metadata).
		Uint("DesiredFirstTrackNumberEnqueued", uint32(desiredFirstTrack)).
		Bool("EnqueueAsNext", enqueueAsNext)
	payload, err := t.call(ctx, "AddURIToQueue", args)
	if err != nil {
		return soap.AddURIToQueueResponse{}, err
	}
	return soap.DecodeAddURIToQueue(t.namespace, payload)
}

// AddStreamToQueue enqueues a stream with generated DIDL-Lite metadata. The
// item id is pseudo-unique, drawn from the configured IDSource.
func (t *AVTransport) AddStreamToQueue(ctx context.Context, uri, title string, desiredFirstTrack int, enqueueAsNext bool) (soap.AddURIToQueueResponse, error) {
	if desiredFirstTrack < 0 {
		return soap.AddURIToQueueResponse{}, &soap.InvalidArgumentError{
			Op:     "AddStreamToQueue",
			Field:  "DesiredFirstTrackNumberEnqueued",
			Reason: "must not be negative",
		}
	}
	metadata, err := BuildDIDL(DIDLItem{
		ID:    "10032020stream" + strconv.Itoa(100000+t.ids.Intn(900000)),
		Title: title,
		Class: soap.ItemClassMusicTrack,
	})
	if err != nil {
		return soap.AddURIToQueueResponse{}, err
	}
	return t.AddTrackToQueue(ctx, uri, metadata, desiredFirstTrack, enqueueAsNext)
}

func (t *AVTransport) SetPlayMode(ctx context.Context, mode soap.PlayMode) error {
	if _, err := mode.Wire(); err != nil {
		return &soap.InvalidArgumentError{Op: "SetPlayMode", Field: "NewPlayMode", Reason: err.Error()}
	}
	_, err := t.call(ctx, "SetPlayMode", soap.InstanceArgs().Enum("NewPlayMode", mode))
	return err
}

func (t *AVTransport) GetMediaInfo(ctx context.Context) (soap.GetMediaInfoResponse, error) {
	return query(ctx, t, "GetMediaInfo", soap.DecodeMediaInfo)
}

func (t *AVTransport) GetPositionInfo(ctx context.Context) (soap.GetPositionInfoResponse, error) {
	return query(ctx, t, "GetPositionInfo", soap.DecodePositionInfo)
}

func (t *AVTransport) GetTransportInfo(ctx context.Context) (soap.GetTransportInfoResponse, error) {
	return query(ctx, t, "GetTransportInfo", soap.DecodeTransportInfo)
}

func (t *AVTransport) GetTransportSettings(ctx context.Context) (soap.GetTransportSettingsResponse, error) {
	return query(ctx, t, "GetTransportSettings", soap.DecodeTransportSettings)
}

// SetMediaURL replaces the transport source with uri. metadata is sent as
// given.
func (t *AVTransport) SetMediaURL(ctx context.Context, uri, metadata string) error {
	if uri == "" {
		return &soap.InvalidArgumentError{Op: "SetAVTransportURI", Field: "CurrentURI", Reason: "must not be empty"}
	}
	_, err := t.call(ctx, "SetAVTransportURI", soap.InstanceArgs().
		Text("CurrentURI", uri).
		Text("CurrentURIMetaData", metadata))
	return err
}

// SetTuneInRadio tunes the transport to a TuneIn station.
func (t *AVTransport) SetTuneInRadio(ctx context.Context, stationID, title string) error {
	if stationID == "" {
		return &soap.InvalidArgumentError{Op: "SetTuneInRadio", Field: "stationID", Reason: "must not be empty"}
	}
	metadata, err := TuneInMetadata(stationID, title)
	if err != nil {
		return err
	}
	return t.SetMediaURL(ctx, TuneInURI(stationID), metadata)
}
