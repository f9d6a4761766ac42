package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Restaurant is a catalog entry. Instances are never mutated after load.
type Restaurant struct {
	ID                 string  `json:"restaurant_id"`
	Name               string  `json:"name"`
	CuisineType        string  `json:"cuisine_type"`
	Rating             float64 `json:"rating"`
	Location           string  `json:"location"`
	TotalTables        int     `json:"total_tables"`
	TableConfiguration []int   `json:"table_configuration"`
	OpeningHours       string  `json:"opening_hours"`
	ClosingHours       string  `json:"closing_hours"`
}

func (r *Restaurant) DisplayInfo() string {
	return fmt.Sprintf("%s - %s - Rating: %s/5 - Location: %s", r.Name, r.CuisineType, formatRating(r.Rating), r.Location)
}

// formatRating prints the shortest exact form with at least one decimal: 4 -> "4.0", 4.25 -> "4.25".
func formatRating(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
