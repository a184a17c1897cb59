package request

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type CreateManufacturerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
