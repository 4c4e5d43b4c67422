// Package classify detects the type of a meeting from its transcript text
// using a weighted keyword model plus structural heuristics.
package classify

import (
	"fmt"
	"strings"
)

// Category is a fixed meeting-type enumeration. Custom summarization roles
// are a string override at the prompt layer, not new categories.
type Category string

const (
	CategoryOneOnOne    Category = "1:1"
	CategoryTeamMeeting Category = "team_meeting"
	CategoryForecast    Category = "forecast"
	CategoryCustomer    Category = "customer"
	CategoryTechnical   Category = "technical"
	CategoryStrategic   Category = "strategic"
)

// Categories lists all known meeting categories in scoring order.
var Categories = []Category{
	CategoryOneOnOne,
	CategoryTeamMeeting,
	CategoryForecast,
	CategoryCustomer,
	CategoryTechnical,
	CategoryStrategic,
}

// ParseCategory resolves a user-supplied category name. Common aliases like
// "one-on-one" and "team-meeting" are accepted.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1:1", "1-1", "one-on-one", "one_on_one", "oneonone":
		return CategoryOneOnOne, nil
	case "team_meeting", "team-meeting", "team":
		return CategoryTeamMeeting, nil
	case "forecast":
		return CategoryForecast, nil
	case "customer", "client":
		return CategoryCustomer, nil
	case "technical", "tech":
		return CategoryTechnical, nil
	case "strategic", "strategy":
		return CategoryStrategic, nil
	default:
		return "", fmt.Errorf("unknown meeting category %q", s)
	}
}

func (c Category) String() string {
	return string(c)
}
