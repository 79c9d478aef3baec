package team

import (
	"fmt"
	"strings"
)

// Team is a Premier League club identified by its three-letter code.
type Team struct {
	Code      string
	Name      string
	ShortName string
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (t Team) Validate() error {
	if NormalizeCode(t.Code) == "" {
		return fmt.Errorf("team code is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team %s: name is required", t.Code)
	}

	return nil
}
