package dto

import "tiffin-route-service/internal/domain"

type StoreResponse struct {
	StoreID  string              `json:"store_id"`
	Name     string              `json:"name"`
	Address  string              `json:"address"`
	Location domain.Coordinates  `json:"location"`
	Divider  *domain.DividerLine `json:"divider"`
}

type ListStoresResponse struct {
	Stores []StoreResponse `json:"stores"`
}

func NewStoreResponse(s *domain.Store) StoreResponse {
	return StoreResponse{
		StoreID:  s.StoreID,
		Name:     s.Name,
		Address:  s.Address,
		Location: s.Location,
		Divider:  s.Divider,
	}
}

// CoordinatesRequest uses pointers so a missing field is told apart from 0.
type CoordinatesRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (c CoordinatesRequest) Coordinates() domain.Coordinates {
	var out domain.Coordinates
	if c.Lat != nil {
		out.Lat = *c.Lat
	}
	if c.Lng != nil {
		out.Lng = *c.Lng
	}
	return out
}

type DividerRequest struct {
	Start CoordinatesRequest `json:"start"`
	End   CoordinatesRequest `json:"end"`
}

func (d DividerRequest) DividerLine() domain.DividerLine {
	return domain.DividerLine{Start: d.Start.Coordinates(), End: d.End.Coordinates()}
}
