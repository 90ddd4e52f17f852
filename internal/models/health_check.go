package models

import "time"

type HealthCheck struct {
	Status    string     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Workers   WorkerPool `json:"workers"`
}

type WorkerPool struct {
	Size     int   `json:"size"`
	InFlight int64 `json:"in_flight"`
}
