package engine

// Container is one entry of the daemon's container list.
type Container struct {
	ID     string   `json:"Id"`
	Names  []string `json:"Names"`
	Image  string   `json:"Image"`
	State  string   `json:"State"`
	Status string   `json:"Status"`
	Ports  []Port   `json:"Ports"`
}

// Name returns the primary container name without the leading slash.
func (c Container) Name() string {
	if len(c.Names) == 0 {
		return c.ShortID()
	}
	name := c.Names[0]
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	return name
}

// ShortID returns the 12-character id the daemon CLI shows.
func (c Container) ShortID() string {
	return ShortID(c.ID)
}

// ShortID truncates a container id to the daemon CLI's 12-character form.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// Port describes one published port of a listed container.
type Port struct {
	IP          string `json:"IP"`
	PrivatePort uint16 `json:"PrivatePort"`
	PublicPort  uint16 `json:"PublicPort"`
	Type        string `json:"Type"`
}

// Stats is a point-in-time resource sample for a container. Counters are
// cumulative; two consecutive samples are needed to derive rates.
type Stats struct {
	CPUStats    CPUStats                `json:"cpu_stats"`
	PreCPUStats CPUStats                `json:"precpu_stats"`
	MemoryStats MemoryStats             `json:"memory_stats"`
	Networks    map[string]NetworkStats `json:"networks"`
}

type CPUStats struct {
	CPUUsage       CPUUsage `json:"cpu_usage"`
	SystemCPUUsage uint64   `json:"system_cpu_usage"`
	OnlineCPUs     uint32   `json:"online_cpus"`
}

type CPUUsage struct {
	TotalUsage  uint64   `json:"total_usage"`
	PercpuUsage []uint64 `json:"percpu_usage"`
}

type MemoryStats struct {
	Usage uint64            `json:"usage"`
	Limit uint64            `json:"limit"`
	Stats map[string]uint64 `json:"stats"`
}

type NetworkStats struct {
	RxBytes uint64 `json:"rx_bytes"`
	TxBytes uint64 `json:"tx_bytes"`
}

// Inspection is the daemon's detailed view of a single container.
type Inspection struct {
	ID              string           `json:"Id"`
	Created         string           `json:"Created"`
	Path            string           `json:"Path"`
	Args            []string         `json:"Args"`
	Name            string           `json:"Name"`
	Config          *InspectConfig   `json:"Config"`
	NetworkSettings *NetworkSettings `json:"NetworkSettings"`
	HostConfig      *HostConfig      `json:"HostConfig"`
}

type InspectConfig struct {
	Image string   `json:"Image"`
	Cmd   []string `json:"Cmd"`
	Env   []string `json:"Env"`
}

type NetworkSettings struct {
	IPAddress string                   `json:"IPAddress"`
	Ports     map[string][]PortBinding `json:"Ports"`
	Networks  map[string]Network       `json:"Networks"`
}

type Network struct {
	IPAddress string `json:"IPAddress"`
}

type PortBinding struct {
	HostIP   string `json:"HostIp"`
	HostPort string `json:"HostPort"`
}

// HostConfig carries the resource limits and restart policy of a container.
// The same shape is sent on create and read back on inspect.
type HostConfig struct {
	Binds         []string                 `json:"Binds,omitempty"`
	PortBindings  map[string][]PortBinding `json:"PortBindings,omitempty"`
	NanoCPUs      int64                    `json:"NanoCpus,omitempty"`
	Memory        int64                    `json:"Memory,omitempty"`
	RestartPolicy *RestartPolicy           `json:"RestartPolicy,omitempty"`
}

type RestartPolicy struct {
	Name              string `json:"Name"`
	MaximumRetryCount int    `json:"MaximumRetryCount,omitempty"`
}

// CreateConfig is the JSON body of a container-create call.
type CreateConfig struct {
	Image        string              `json:"Image,omitempty"`
	Env          []string            `json:"Env,omitempty"`
	ExposedPorts map[string]struct{} `json:"ExposedPorts,omitempty"`
	HostConfig   *HostConfig         `json:"HostConfig,omitempty"`
}

// ImageSummary is one entry of the daemon's image list.
type ImageSummary struct {
	ID       string   `json:"Id"`
	RepoTags []string `json:"RepoTags"`
	Size     int64    `json:"Size"`
	Created  int64    `json:"Created"`
}

// Volume is one entry of the daemon's volume list.
type Volume struct {
	Name      string `json:"Name"`
	CreatedAt string `json:"CreatedAt"`
}

type volumeListResponse struct {
	Volumes []Volume `json:"Volumes"`
}

type createContainerResponse struct {
	ID       string   `json:"Id"`
	Warnings []string `json:"Warnings"`
}

// pullProgress is one status line of a streamed image pull.
type pullProgress struct {
	Status   string `json:"status"`
	Progress string `json:"progress"`
	Error    string `json:"error"`
}

// buildOutput is one line of a streamed image build.
type buildOutput struct {
	Stream string `json:"stream"`
	Error  string `json:"error"`
}
