package categories

// Category labels products. Names need not be unique.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required,max=120"`
}

// Patch lists the fields an update changes.
type Patch struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
}
