// Package action executes operator commands against the engine on a
// single worker, in submission order. Long-running commands stream
// progress strings over the results channel while they run.
package action

// Command is a closed set of operator requests. The executor type-switches
// over it; the marker method keeps foreign types out.
type Command interface {
	isCommand()
}

// Start starts a stopped container.
type Start struct {
	ID string
}

// Stop stops a running container.
type Stop struct {
	ID string
}

// Restart restarts a container.
type Restart struct {
	ID string
}

// Delete force-removes a container.
type Delete struct {
	ID string
}

// Create pulls an image and runs a new container from the given spec
// strings. Empty spec fields mean "daemon default".
type Create struct {
	Image   string
	Name    string
	Ports   string // "8080:80, 9090" style, space or comma separated
	Env     string // "KEY=val KEY2=val2"
	CPU     string // fractional cores, "0.5"
	Memory  string // "512m", "2g", "1024k" or raw bytes
	Restart string // restart policy token
}

// Replace removes an existing container and creates a fresh one in its
// place. Removal is best effort; a create proceeds even if the old
// container is already gone.
type Replace struct {
	OldID string
	Spec  Create
}

// Build tars a directory, builds it into an image, and starts a container
// from the result. With Mount set, the directory is bind-mounted at /app.
type Build struct {
	Tag   string
	Path  string
	Mount bool
}

// ComposeUp shells out to `docker compose up -d` for a compose file, with
// an optional override file that is deleted afterwards no matter how the
// run ends.
type ComposeUp struct {
	Path         string
	OverridePath string
}

// ScanJanitor inventories reclaimable junk: dangling images, dangling
// volumes, and exited or dead containers.
type ScanJanitor struct{}

// CleanJanitor deletes the given janitor items, continuing past
// per-item failures.
type CleanJanitor struct {
	Items []JanitorItem
}

// RefreshContainers forces an immediate container re-listing.
type RefreshContainers struct{}

func (Start) isCommand()             {}
func (Stop) isCommand()              {}
func (Restart) isCommand()           {}
func (Delete) isCommand()            {}
func (Create) isCommand()            {}
func (Replace) isCommand()           {}
func (Build) isCommand()             {}
func (ComposeUp) isCommand()         {}
func (ScanJanitor) isCommand()       {}
func (CleanJanitor) isCommand()      {}
func (RefreshContainers) isCommand() {}

// JanitorKind tags what a janitor item is, which decides how it gets
// deleted.
type JanitorKind string

const (
	KindImage     JanitorKind = "image"
	KindVolume    JanitorKind = "volume"
	KindContainer JanitorKind = "container"
)

// JanitorItem is one reclaimable object found by a scan. Selected carries
// the default checkbox state: volumes start unselected because dangling
// volumes can still hold data someone wants.
type JanitorItem struct {
	ID       string
	Name     string
	Kind     JanitorKind
	Size     uint64
	Age      string
	Selected bool
}
