package domain

import "go.trai.ch/zerr"

var (
	// ErrNodeNotFound is returned when a requested node ID is not registered.
	ErrNodeNotFound = zerr.New("node not found")

	// ErrNodeAlreadyRegistered is returned when registering a node ID twice.
	ErrNodeAlreadyRegistered = zerr.New("node already registered")

	// ErrInvalidInput is returned when a node input is missing or out of range.
	ErrInvalidInput = zerr.New("invalid node input")

	// ErrInputDecodeFailed is returned when loosely typed inputs cannot be decoded into node inputs.
	ErrInputDecodeFailed = zerr.New("failed to decode node inputs")

	// ErrUnknownSampler is returned when a sampler name is not part of the sampler set.
	ErrUnknownSampler = zerr.New("unknown sampler name")

	// ErrUnknownResizeMode is returned when a resize mode is not part of the resize mode set.
	ErrUnknownResizeMode = zerr.New("unknown resize mode")

	// ErrBackendUnavailable is returned when the Stable Diffusion backend cannot be reached.
	ErrBackendUnavailable = zerr.New("stable diffusion backend is unavailable")

	// ErrBackendRequestFailed is returned when a backend request fails or returns a non-2xx status.
	ErrBackendRequestFailed = zerr.New("stable diffusion request failed")

	// ErrBackendResponseInvalid is returned when the backend response does not carry an image.
	ErrBackendResponseInvalid = zerr.New("invalid stable diffusion response")

	// ErrImageEncodeFailed is returned when an image cannot be encoded.
	ErrImageEncodeFailed = zerr.New("failed to encode image")

	// ErrImageDecodeFailed is returned when an image cannot be decoded.
	ErrImageDecodeFailed = zerr.New("failed to decode image")

	// ErrImageInvalid is returned when an image buffer does not match its declared shape.
	ErrImageInvalid = zerr.New("invalid image buffer")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileWriteFailed is returned when a file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrStoreCreateFailed is returned when the result store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create result store directory")

	// ErrStoreReadFailed is returned when a stored result cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read stored result")

	// ErrStoreWriteFailed is returned when a result cannot be persisted.
	ErrStoreWriteFailed = zerr.New("failed to write stored result")

	// ErrStoreUnmarshalFailed is returned when stored result metadata cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal stored result")

	// ErrStoreMarshalFailed is returned when result metadata cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal stored result")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a config value is not acceptable.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrJobReadFailed is returned when a job file cannot be read.
	ErrJobReadFailed = zerr.New("failed to read job file")

	// ErrJobParseFailed is returned when a job file cannot be parsed.
	ErrJobParseFailed = zerr.New("failed to parse job file")

	// ErrEmptyJob is returned when a job file lists no invocations.
	ErrEmptyJob = zerr.New("job has no invocations")

	// ErrInvocationFailed is returned when a node invocation fails.
	ErrInvocationFailed = zerr.New("node invocation failed")

	// ErrMetricsServeFailed is returned when the metrics endpoint cannot be served.
	ErrMetricsServeFailed = zerr.New("failed to serve metrics")

	// ErrInvalidOutputMode is returned when the requested output mode is unknown.
	ErrInvalidOutputMode = zerr.New("invalid output mode")

	// ErrRunFailed is returned when one or more invocations of a run fail.
	ErrRunFailed = zerr.New("run failed")
)
