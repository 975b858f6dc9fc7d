package cli

import "time"

// Output formats.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Progress reporting interval during a sweep.
const progressInterval = time.Second

const logFilePermission = 0600
