package xmldiff

// Exit codes returned by the xmldiff CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure, including files that differ.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config, validation failure, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (missing directory, unreadable project, etc.).
	ExitEnvError = 3

	// ExitDiffFailed is returned by "xmldiff check" when at least one test
	// finished with an XMLDIFF status.
	ExitDiffFailed = 0x81
)
