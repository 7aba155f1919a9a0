package api

// Known app types the backend manages. Connection tests and per-app
// operations are limited to this set.
const (
	AppSonarr   = "sonarr"
	AppRadarr   = "radarr"
	AppLidarr   = "lidarr"
	AppReadarr  = "readarr"
	AppWhisparr = "whisparr"
	AppEros     = "eros"
)

// KnownApps lists every supported app type.
var KnownApps = []string{AppSonarr, AppRadarr, AppLidarr, AppReadarr, AppWhisparr, AppEros}

// ValidApp reports whether app names a supported app type.
func ValidApp(app string) bool {
	for _, a := range KnownApps {
		if a == app {
			return true
		}
	}
	return false
}

// Availability status values reported per search result.
const (
	StatusAvailable                 = "available"
	StatusAvailableToRequestMissing = "available_to_request_missing"
	StatusRequested                 = "requested"
	StatusAvailableToRequest        = "available_to_request"
	StatusError                     = "error"
)

// Instance identifies one configured app instance on the backend.
type Instance struct {
	Name string `json:"name"`
}

// InstanceSet groups the request-capable instances by app type.
type InstanceSet struct {
	Sonarr []Instance `json:"sonarr"`
	Radarr []Instance `json:"radarr"`
}

// Availability describes whether a media item can be requested.
type Availability struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// MediaItem is one search result.
type MediaItem struct {
	TMDBID       int64        `json:"tmdb_id"`
	MediaType    string       `json:"media_type"`
	Title        string       `json:"title"`
	Year         int          `json:"year"`
	Overview     string       `json:"overview"`
	PosterPath   string       `json:"poster_path"`
	BackdropPath string       `json:"backdrop_path,omitempty"`
	VoteAverage  float64      `json:"vote_average"`
	Availability Availability `json:"availability"`
}

type searchResponse struct {
	Results []MediaItem `json:"results"`
	Error   string      `json:"error,omitempty"`
}

// RequestPayload is the body of a media request.
type RequestPayload struct {
	TMDBID       int64  `json:"tmdb_id"`
	MediaType    string `json:"media_type"`
	Title        string `json:"title"`
	Year         int    `json:"year"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	AppType      string `json:"app_type"`
	InstanceName string `json:"instance_name"`
}

// RequestResult is the backend's answer to a media request.
type RequestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ConnectionResult is the backend's answer to a connection test.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}
