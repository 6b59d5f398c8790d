package protocol

// FileEvent represents a file event
type FileEvent struct {
	URI  string `json:"uri"`
	Type int    `json:"type"`
}

// FileChangeType represents the type of file change
type FileChangeType int

const (
	// FileCreated represents a file creation event
	FileCreated FileChangeType = 1
	// FileChanged represents a file change event
	FileChanged FileChangeType = 2
	// FileDeleted represents a file deletion event
	FileDeleted FileChangeType = 3
)

// DidChangeWatchedFilesParams represents the parameters for a didChangeWatchedFiles notification
type DidChangeWatchedFilesParams struct {
	Changes []FileEvent `json:"changes"`
}

// FileSystemWatcher represents a file system watcher
type FileSystemWatcher struct {
	GlobPattern string `json:"globPattern"`
	Kind        int    `json:"kind,omitempty"`
}

// WatchKind represents the kind of file watching
type WatchKind int

const (
	// WatchCreate represents watching for file creation
	WatchCreate WatchKind = 1
	// WatchChange represents watching for file changes
	WatchChange WatchKind = 2
	// WatchDelete represents watching for file deletion
	WatchDelete WatchKind = 4
)

// DidChangeWatchedFilesRegistrationOptions represents the options for registering file watchers
type DidChangeWatchedFilesRegistrationOptions struct {
	Watchers []FileSystemWatcher `json:"watchers"`
}

// Registration represents a dynamic capability registration
type Registration struct {
	ID              string `json:"id"`
	Method          string `json:"method"`
	RegisterOptions any    `json:"registerOptions,omitempty"`
}

// RegistrationParams represents the parameters for a client/registerCapability request
type RegistrationParams struct {
	Registrations []Registration `json:"registrations"`
}
