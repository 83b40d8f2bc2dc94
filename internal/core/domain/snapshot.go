package domain

// ParamSnapshot is the forensic record written as params.json into every cache folder.
// It keeps enough information to tell which inputs produced a fingerprint without
// recomputing anything.
type ParamSnapshot struct {
	ObjectName  string          `json:"object_name"`
	RunTag      string          `json:"run_tag,omitempty"`
	Fingerprint Fingerprint     `json:"fingerprint"`
	Fields      []SnapshotField `json:"fields"`
}

// SnapshotField is one tracked field of a ParamSnapshot.
type SnapshotField struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`

	// Value is the canonical encoding of a parameter, when it is valid UTF-8.
	Value string `json:"value,omitempty"`
	// Digest is the SHA-1 of the canonical encoding of a parameter.
	Digest string `json:"digest,omitempty"`

	// ObjectName, RunTag and Fingerprint identify a dependency.
	ObjectName  string      `json:"object_name,omitempty"`
	RunTag      string      `json:"run_tag,omitempty"`
	Fingerprint Fingerprint `json:"fingerprint,omitempty"`
}
