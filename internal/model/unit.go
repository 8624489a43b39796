package model

import "github.com/google/uuid"

type StorageCenter struct {
	ID         uuid.UUID
	Name       string
	Address    string
	City       string
	PostalCode string
	Phone      string
}

// Unit is a read-only projection of a storage unit. The wizard fetches it
// once and treats it as immutable for the whole session.
type Unit struct {
	ID            int64
	CenterID      uuid.UUID
	BoxNumber     string
	VolumeM3      float64
	SurfaceM2     float64
	PricePerMonth float64
	Available     bool
	Features      []string
	Images        []string
	Center        StorageCenter
}
