package areacode

// Level is the granularity of a geographic area code.
type Level string

const (
	LargeArea  Level = "large"
	MiddleArea Level = "middle"
	SmallArea  Level = "small"
)

// Area is one entry of the two-level area hierarchy (large area contains
// middle/small areas). Within one level a name never maps to more than one
// code.
type Area struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Level      Level  `json:"level"`
	ParentName string `json:"parent_name,omitempty"`
	ParentCode string `json:"parent_code,omitempty"`
}
