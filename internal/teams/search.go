package teams

import (
	"strings"

	"barrank/internal/model"
)

// SearchParties returns party teams with a member whose name contains the
// query, case-insensitively.
func SearchParties(parties []model.PartyTeamCandidate, query string) []model.PartyTeamCandidate {
	q := strings.ToLower(query)
	var out []model.PartyTeamCandidate
	for _, team := range parties {
		if membersMatch(team.Members, q) {
			out = append(out, team)
		}
	}
	return out
}

// SearchCommunities is the community counterpart of SearchParties.
func SearchCommunities(clusters []model.CommunityCluster, query string) []model.CommunityCluster {
	q := strings.ToLower(query)
	var out []model.CommunityCluster
	for _, c := range clusters {
		if membersMatch(c.Members, q) {
			out = append(out, c)
		}
	}
	return out
}

func membersMatch(members []model.TeamMember, loweredQuery string) bool {
	if loweredQuery == "" {
		return false
	}
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), loweredQuery) {
			return true
		}
	}
	return false
}
