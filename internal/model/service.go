package model

// Service is an optional add-on (insurance, lock, handling...). The catalog
// is fetched once and kept ordered; selection is by id membership only.
type Service struct {
	ID          int64
	Name        string
	Description string
	Price       float64
}

type ServiceCatalog []Service

func (c ServiceCatalog) Contains(id int64) bool {
	for _, s := range c {
		if s.ID == id {
			return true
		}
	}
	return false
}
