package shared

const (
	// DefaultUnit is used when a product is saved without a unit.
	DefaultUnit = "un"

	// Uncategorized labels products whose category is unset or was deleted.
	Uncategorized = "Sem categoria"
)
