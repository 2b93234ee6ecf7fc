package history

import "time"

// Action is one executed command and its final result line.
type Action struct {
	ID        string    `db:"id"`
	CommandID string    `db:"command_id"`
	Kind      string    `db:"kind"`
	Detail    string    `db:"detail"`
	Result    string    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
}

// StatSample is one resource reading for a container at a point in time.
// Rates are bytes transferred since the previous reading, memory is bytes.
type StatSample struct {
	ID          string    `db:"id"`
	ContainerID string    `db:"container_id"`
	CPUPercent  float64   `db:"cpu_percent"`
	RxRate      float64   `db:"rx_rate"`
	TxRate      float64   `db:"tx_rate"`
	MemUsage    uint64    `db:"mem_usage"`
	MemLimit    uint64    `db:"mem_limit"`
	CreatedAt   time.Time `db:"created_at"`
}
