package domain

const (
	// CacheFolderEnv is the setting that names the cache root directory.
	CacheFolderEnv = "CACHE_FOLDER"

	// LogFileEnv is the optional setting for a rotating log file.
	LogFileEnv = "MEMO_LOG_FILE"

	// LogJSONEnv switches the logger to JSON output.
	LogJSONEnv = "MEMO_LOG_JSON"

	// LockRetryEnv is the polling interval used while waiting for a cache lock.
	LockRetryEnv = "MEMO_LOCK_RETRY"

	// TraceEnv logs one line per finished cache span when true.
	TraceEnv = "MEMO_TRACE"

	// SettingsFileName is the local settings file read from the working directory.
	SettingsFileName = ".env"

	// ExampleSettingsFileName is read before SettingsFileName and overridden by it.
	ExampleSettingsFileName = "example.env"

	// ParamsFileName is the parameter snapshot written into every cache folder.
	ParamsFileName = "params.json"

	// Separator joins the components of a cache folder name.
	Separator = "_"

	// HiddenPrefix marks lock files and staging directories inside an object directory.
	HiddenPrefix = "."

	// TempDirPrefix prefixes cache folders that are still being created.
	TempDirPrefix = ".tmp-"

	// StagingDirPrefix prefixes payload staging directories inside a cache folder.
	StagingDirPrefix = ".staging-"

	// LockFileSuffix is appended to the fingerprint to name the per-fingerprint lock file.
	LockFileSuffix = ".lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)
