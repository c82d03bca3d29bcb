package credential

import "time"

// Thresholds are the fixed engagement criteria. They are not runtime
// configuration; policy changes land here and nowhere else.
type Thresholds struct {
	MinAccountAgeDays      int // strict: age must exceed this
	MinServers             int
	MinServersWithRoles    int
	MinVerifiedConnections int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinAccountAgeDays:      365,
		MinServers:             10,
		MinServersWithRoles:    3,
		MinVerifiedConnections: 2,
	}
}

type AccountAgeResult struct {
	Passed    bool      `json:"passed"`
	Days      int       `json:"days"`
	CreatedAt time.Time `json:"createdAt"`
}

type ServerCountResult struct {
	Passed bool `json:"passed"`
	Count  int  `json:"count"`
}

type RoleDetail struct {
	GuildName string `json:"guildName"`
	RoleCount int    `json:"roleCount"`
}

type RoleAssignmentsResult struct {
	Passed           bool         `json:"passed"`
	ServersWithRoles int          `json:"serversWithRoles"`
	Details          []RoleDetail `json:"details"`
}

type ConnectionDetail struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type VerifiedConnectionsResult struct {
	Passed      bool               `json:"passed"`
	Count       int                `json:"count"`
	Connections []ConnectionDetail `json:"connections"`
}

// Report is the sole artifact an evaluation produces. Beyond the account
// id it carries only counts and bounded display detail; guild ids, role
// ids, and connection account ids never leave the pipeline.
type Report struct {
	ID                  string                    `json:"id"`
	AccountAge          AccountAgeResult          `json:"accountAge"`
	ServerCount         ServerCountResult         `json:"serverCount"`
	RoleAssignments     RoleAssignmentsResult     `json:"roleAssignments"`
	VerifiedConnections VerifiedConnectionsResult `json:"verifiedConnections"`
	OverallPassed       bool                      `json:"overallPassed"`
}

// Assemble combines the four criterion results. OverallPassed is always
// the conjunction of the per-criterion flags.
func Assemble(id string, age AccountAgeResult, servers ServerCountResult, roles RoleAssignmentsResult, conns VerifiedConnectionsResult) Report {
	return Report{
		ID:                  id,
		AccountAge:          age,
		ServerCount:         servers,
		RoleAssignments:     roles,
		VerifiedConnections: conns,
		OverallPassed:       age.Passed && servers.Passed && roles.Passed && conns.Passed,
	}
}
