package domain

// RegistryEntry is a named, durable pointer to a cache folder.
// Entries are frozen: re-registering at the same path replaces the file.
type RegistryEntry struct {
	ObjectName  string      `json:"object_name"  toml:"object_name"  yaml:"object_name"`
	Hash        Fingerprint `json:"hash"         toml:"hash"         yaml:"hash"`
	Comment     string      `json:"comment"      toml:"comment"      yaml:"comment"`
	RunTag      string      `json:"run_tag"      toml:"run_tag"      yaml:"run_tag"`
	CacheFolder string      `json:"cache_folder" toml:"cache_folder" yaml:"cache_folder"`
	CreatedAt   string      `json:"created_at"   toml:"created_at"   yaml:"created_at"`
	CreatedBy   string      `json:"created_by"   toml:"created_by"   yaml:"created_by"`
	GitCommit   string      `json:"git_commit"   toml:"git_commit"   yaml:"git_commit"`
	GitRepo     string      `json:"git_repo"     toml:"git_repo"     yaml:"git_repo"`
}

// Provenance is the source control state captured at registration time.
type Provenance struct {
	Commit string
	Remote string
}
