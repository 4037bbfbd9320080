package abstractions

// ProjectStore is the durable local key/value capability injected into the
// board engine and its projections. Keys are namespaced per project with the
// project_<id>_<key> scheme; values are JSON documents. Writes are synchronous
// and durable before the call returns.
type ProjectStore interface {
	// Set marshals value and writes it under the project-namespaced key.
	Set(projectID, key string, value interface{}) error

	// Get unmarshals the stored value into out and reports whether the key
	// existed. A corrupt stored entry is discarded and reported as absent;
	// the caller's default value stands.
	Get(projectID, key string, out interface{}) (bool, error)

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(projectID, key string) error

	Close() error
}

// StorageKey builds the namespaced key for a (project, logical key) pair.
func StorageKey(projectID, key string) string {
	return "project_" + projectID + "_" + key
}

// Well-known logical keys.
const (
	KeyChangeLogs  = "changeLogs"
	KeyProjectData = "projectData"
	KeyShapePrefix = "shape_"
)

// ShapeKey builds the logical key for a node's shape memory record.
func ShapeKey(nodeID string) string {
	return KeyShapePrefix + nodeID
}
