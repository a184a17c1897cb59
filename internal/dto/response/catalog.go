package response

import "equipment-hire/internal/data/entity"

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ManufacturerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func CategoryToResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID.String(), Name: c.Name}
}

func ManufacturerToResponse(m *entity.Manufacturer) ManufacturerResponse {
	return ManufacturerResponse{ID: m.ID.String(), Name: m.Name}
}
