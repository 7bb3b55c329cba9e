package models

import "fmt"

// Coordinates is a WGS-84 latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `dynamodbav:"lat" json:"lat"`
	Longitude float64 `dynamodbav:"lng" json:"lng"`
}

// Validate checks that the coordinates fall inside the valid WGS-84 ranges
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrValidation, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrValidation, c.Longitude)
	}
	return nil
}
