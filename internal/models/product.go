package models

import "time"

// LatestVersion is the version selector that addresses the most recent product version.
const LatestVersion = "latest"

// DefaultResourceBudget is the resource allowance attached to every registry write.
const DefaultResourceBudget uint64 = 1000000

// SubmitOptions carries the signing identity and resource allowance of a registry write.
type SubmitOptions struct {
	Sender         string `json:"sender"`
	ResourceBudget uint64 `json:"resource_budget"`
}

// ProductUpdate is the payload written to the registry for one product.
// Coordinates and custom data travel as text, the way the registry stores them.
type ProductUpdate struct {
	ProductID  string `json:"product_id"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	CustomData string `json:"custom_data"`
}

// Receipt acknowledges a successful registry write
type Receipt struct {
	TxHash       string    `json:"tx_hash"`
	ProductID    string    `json:"product_id"`
	Version      int64     `json:"version"`
	Sender       string    `json:"sender"`
	ResourceUsed uint64    `json:"resource_used"`
	RecordedAt   time.Time `json:"recorded_at"`
}
