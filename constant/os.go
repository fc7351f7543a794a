package constant

// Values of runtime.GOOS the CLI branches on.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
