package credential

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/stake-plus/discord-credcheck/src/credapi/discord"
)

// EvaluateAccountAge derives account age from the snowflake id. The id is
// decoded with integer arithmetic end to end; float math would corrupt
// timestamps for ids past 53 bits.
func EvaluateAccountAge(userID string, now time.Time, t Thresholds) (AccountAgeResult, error) {
	createdAt, err := discordgo.SnowflakeTimestamp(userID)
	if err != nil {
		return AccountAgeResult{}, fmt.Errorf("credential: decode account id: %w", err)
	}
	createdAt = createdAt.UTC()

	days := int(now.Sub(createdAt) / (24 * time.Hour))
	return AccountAgeResult{
		Passed:    days > t.MinAccountAgeDays,
		Days:      days,
		CreatedAt: createdAt,
	}, nil
}

// EvaluateServerCount judges raw guild membership volume.
func EvaluateServerCount(guilds []*discordgo.UserGuild, t Thresholds) ServerCountResult {
	return ServerCountResult{
		Passed: len(guilds) >= t.MinServers,
		Count:  len(guilds),
	}
}

// EvaluateRoleAssignments judges the aggregate produced by the per-guild
// member fan-out. The details list is display-only and already capped;
// the count reflects the full set.
func EvaluateRoleAssignments(serversWithRoles int, details []RoleDetail, t Thresholds) RoleAssignmentsResult {
	if details == nil {
		details = []RoleDetail{}
	}
	return RoleAssignmentsResult{
		Passed:           serversWithRoles >= t.MinServersWithRoles,
		ServersWithRoles: serversWithRoles,
		Details:          details,
	}
}

// EvaluateVerifiedConnections counts verified external accounts.
// Unverified entries are excluded from the count and from the detail
// list; they never appear in output at all.
func EvaluateVerifiedConnections(conns []discord.Connection, t Thresholds) VerifiedConnectionsResult {
	details := []ConnectionDetail{}
	for _, conn := range conns {
		if !conn.Verified {
			continue
		}
		details = append(details, ConnectionDetail{Type: conn.Type, Name: conn.Name})
	}
	return VerifiedConnectionsResult{
		Passed:      len(details) >= t.MinVerifiedConnections,
		Count:       len(details),
		Connections: details,
	}
}
