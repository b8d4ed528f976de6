// pkg/core/team.go
package core

// Team identifies one of the two competing fleets.
type Team uint8

const (
	TeamA Team = iota
	TeamB
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) String() string {
	if t == TeamA {
		return "team_a"
	}
	return "team_b"
}
