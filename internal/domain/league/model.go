package league

import "fmt"

// League is a competition covered by one or more providers.
type League struct {
	ID          string
	Name        string
	Country     string
	ExternalIDs map[string]string
}

// Season is one edition of a league, e.g. "2024-25".
type Season struct {
	ID          string
	LeagueID    string
	Name        string
	StartYear   int
	EndYear     int
	ExternalIDs map[string]string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	return nil
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("season league id is required")
	}
	if s.StartYear <= 0 {
		return fmt.Errorf("season start year is required")
	}
	return nil
}
