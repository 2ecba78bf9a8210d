package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// appID keys the hashed machine ID so the raw ID never leaves the host.
const appID = "vlc.go"

// MachineID returns a stable ID of this host, falling back to the host name
// where no machine ID is available (e.g. minimal containers).
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "vlc"
}
