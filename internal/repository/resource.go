package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"transport-editor/internal/models"
)

const (
	baseResourceCost    = 21000
	resourceCostPerByte = 68
)

// EstimateResource returns the resource units a registry write of update consumes.
func EstimateResource(update models.ProductUpdate) uint64 {
	size := len(update.ProductID) + len(update.Latitude) + len(update.Longitude) + len(update.CustomData)
	return baseResourceCost + resourceCostPerByte*uint64(size)
}

// TxHash derives the receipt hash of a product version.
func TxHash(update models.ProductUpdate, version int64, sender string) string {
	h := sha256.New()
	for _, part := range []string{update.ProductID, strconv.FormatInt(version, 10), update.Latitude, update.Longitude, update.CustomData, sender} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
