package config

// Build metadata, set at link time via -ldflags:
//
//	-X github.com/attendee-dev/attendee/config.Version=v1.2.3
var (
	Version   string
	Commit    string
	Branch    string
	BuildDate string
)
