package status

import (
	"encoding/json"
	"fmt"
	"os"
)

type Status int

const (
	NotInstalled Status = iota
	WaitingForConnection
	Connected
)

func (s Status) String() string {
	switch s {
	case WaitingForConnection:
		return "waiting-for-connection"
	case Connected:
		return "connected"
	default:
		return "not-installed"
	}
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Status) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	for _, c := range []Status{NotInstalled, WaitingForConnection, Connected} {
		if c.String() == str {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", str)
}

// InstallCheck reports whether the in-game hook is installed. Installing it is
// someone else's job.
type InstallCheck interface {
	IsInstalled() bool
}

// LoaderFile treats the hook as installed when the loader file exists. An empty
// path means the hook is managed outside this process and assumed present.
type LoaderFile string

func (p LoaderFile) IsInstalled() bool {
	if p == "" {
		return true
	}
	fi, err := os.Stat(string(p))
	return err == nil && !fi.IsDir()
}

// Indicator derives the tri-state status from connection events. It is not
// safe for concurrent use; the hub owns it.
type Indicator struct {
	check     InstallCheck
	connected bool
}

func NewIndicator(check InstallCheck) *Indicator {
	return &Indicator{check: check}
}

func (i *Indicator) OnConnectedChanged(connected bool) Status {
	i.connected = connected
	return i.Current()
}

func (i *Indicator) Current() Status {
	if i.connected {
		return Connected
	}
	if !i.check.IsInstalled() {
		return NotInstalled
	}
	return WaitingForConnection
}
