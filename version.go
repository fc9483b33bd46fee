package tetra

import (
	"fmt"
	"runtime"
)

var (
	Version    = "0.1.0"                                               // Version number
	SoftwareID = fmt.Sprintf("%s tetra-kit %s", Version, runtime.GOOS) // Software identifier
	PackageID  = fmt.Sprintf("%s/%s", SoftwareID, runtime.GOARCH)      // Package identifier
)
