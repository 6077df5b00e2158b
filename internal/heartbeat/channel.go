package heartbeat

import "time"

// Mode selects the liveness transport.
type Mode string

const (
	ModeSocket Mode = "socket"
	ModeFile   Mode = "file"
)

// ParseMode maps a config string to a Mode; anything unrecognized falls back
// to the socket transport.
func ParseMode(s string) Mode {
	if s == string(ModeFile) {
		return ModeFile
	}
	return ModeSocket
}

// Channel is the contract both transports satisfy. Update is called by the
// poll loop after each completed cycle; Query is called by the probe and
// returns the instant of the last update.
type Channel interface {
	Update() error
	Query() (time.Time, error)
}
