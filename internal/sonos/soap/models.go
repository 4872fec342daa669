package soap

import "time"

// AddURIToQueueResponse mirrors the AddURIToQueue response.
type AddURIToQueueResponse struct {
	FirstTrackNumberEnqueued uint32 `json:"first_track_number_enqueued"`
	NumTracksAdded           uint32 `json:"num_tracks_added"`
	NewQueueLength           uint32 `json:"new_queue_length"`
}

func (r *AddURIToQueueResponse) fields() []field {
	return []field{
		uintField("FirstTrackNumberEnqueued", true, &r.FirstTrackNumberEnqueued),
		uintField("NumTracksAdded", true, &r.NumTracksAdded),
		uintField("NewQueueLength", true, &r.NewQueueLength),
	}
}

// GetMediaInfoResponse mirrors the GetMediaInfo response.
type GetMediaInfoResponse struct {
	NrTracks           uint32 `json:"nr_tracks"`
	MediaDuration      string `json:"media_duration"`
	CurrentURI         string `json:"current_uri"`
	CurrentURIMetaData string `json:"current_uri_metadata"`
	NextURI            string `json:"next_uri"`
	NextURIMetaData    string `json:"next_uri_metadata"`
	PlayMedium         string `json:"play_medium"`
	RecordMedium       string `json:"record_medium"`
	WriteStatus        string `json:"write_status"`
}

func (r *GetMediaInfoResponse) fields() []field {
	return []field{
		uintField("NrTracks", true, &r.NrTracks),
		durationField("MediaDuration", false, &r.MediaDuration),
		stringField("CurrentURI", false, &r.CurrentURI),
		stringField("CurrentURIMetaData", false, &r.CurrentURIMetaData),
		stringField("NextURI", false, &r.NextURI),
		stringField("NextURIMetaData", false, &r.NextURIMetaData),
		stringField("PlayMedium", false, &r.PlayMedium),
		stringField("RecordMedium", false, &r.RecordMedium),
		stringField("WriteStatus", false, &r.WriteStatus),
	}
}

// GetPositionInfoResponse mirrors the GetPositionInfo response.
type GetPositionInfoResponse struct {
	Track         uint32 `json:"track"`
	TrackDuration string `json:"track_duration"`
	TrackMetaData string `json:"track_metadata"`
	TrackURI      string `json:"track_uri"`
	RelTime       string `json:"rel_time"`
	AbsTime       string `json:"abs_time"`
	RelCount      int    `json:"rel_count"`
	AbsCount      int    `json:"abs_count"`
}

func (r *GetPositionInfoResponse) fields() []field {
	return []field{
		uintField("Track", true, &r.Track),
		durationField("TrackDuration", false, &r.TrackDuration),
		stringField("TrackMetaData", false, &r.TrackMetaData),
		stringField("TrackURI", false, &r.TrackURI),
		durationField("RelTime", false, &r.RelTime),
		durationField("AbsTime", false, &r.AbsTime),
		intField("RelCount", false, &r.RelCount),
		intField("AbsCount", false, &r.AbsCount),
	}
}

// Elapsed returns RelTime as a duration.
func (r GetPositionInfoResponse) Elapsed() time.Duration {
	d, _ := ParseDuration(r.RelTime)
	return d
}

// Duration returns TrackDuration as a duration.
func (r GetPositionInfoResponse) Duration() time.Duration {
	d, _ := ParseDuration(r.TrackDuration)
	return d
}

// GetTransportInfoResponse mirrors the GetTransportInfo response.
type GetTransportInfoResponse struct {
	CurrentTransportState  string `json:"current_transport_state"`
	CurrentTransportStatus string `json:"current_transport_status"`
	CurrentSpeed           string `json:"current_speed"`
}

func (r *GetTransportInfoResponse) fields() []field {
	return []field{
		stringField("CurrentTransportState", true, &r.CurrentTransportState),
		stringField("CurrentTransportStatus", false, &r.CurrentTransportStatus),
		stringField("CurrentSpeed", false, &r.CurrentSpeed),
	}
}

// GetTransportSettingsResponse mirrors the GetTransportSettings response.
type GetTransportSettingsResponse struct {
	PlayMode       string `json:"play_mode"`
	RecQualityMode string `json:"rec_quality_mode"`
}

func (r *GetTransportSettingsResponse) fields() []field {
	return []field{
		stringField("PlayMode", true, &r.PlayMode),
		stringField("RecQualityMode", false, &r.RecQualityMode),
	}
}

// Mode parses PlayMode into its enumeration.
func (r GetTransportSettingsResponse) Mode() (PlayMode, error) {
	return ParsePlayMode(r.PlayMode)
}

func DecodeAddURIToQueue(namespace string, payload []byte) (AddURIToQueueResponse, error) {
	var r AddURIToQueueResponse
	if err := decodeResponse(namespace, "AddURIToQueue", payload, r.fields()); err != nil {
		return AddURIToQueueResponse{}, err
	}
	return r, nil
}

func DecodeMediaInfo(namespace string, payload []byte) (GetMediaInfoResponse, error) {
	var r GetMediaInfoResponse
	if err := decodeResponse(namespace, "GetMediaInfo", payload, r.fields()); err != nil {
		return GetMediaInfoResponse{}, err
	}
	return r, nil
}

func DecodePositionInfo(namespace string, payload []byte) (GetPositionInfoResponse, error) {
	var r GetPositionInfoResponse
	if err := decodeResponse(namespace, "GetPositionInfo", payload, r.fields()); err != nil {
		return GetPositionInfoResponse{}, err
	}
	return r, nil
}

func DecodeTransportInfo(namespace string, payload []byte) (GetTransportInfoResponse, error) {
	var r GetTransportInfoResponse
	if err := decodeResponse(namespace, "GetTransportInfo", payload, r.fields()); err != nil {
		return GetTransportInfoResponse{}, err
	}
	return r, nil
}

func DecodeTransportSettings(namespace string, payload []byte) (GetTransportSettingsResponse, error) {
	var r GetTransportSettingsResponse
	if err := decodeResponse(namespace, "GetTransportSettings", payload, r.fields()); err != nil {
		return GetTransportSettingsResponse{}, err
	}
	return r, nil
}
