package credential

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/stake-plus/discord-credcheck/src/credapi/discord"
)

const (
	// Workers for the per-guild member fan-out. Bounded so a user in many
	// guilds cannot blow through Discord's global rate budget.
	memberFetchWorkers = 5

	// Display cap for the role detail list. The serversWithRoles count is
	// never capped.
	maxRoleDetails = 5
)

type memberOutcome struct {
	guild  *discordgo.UserGuild
	member *discordgo.Member
	err    error
}

// aggregateRoles probes the user's member record in every guild and counts
// guilds where at least one real role is assigned. Individual probe
// failures (missing scope consent, guild restrictions, timeouts) are
// tolerated: logged, counted as skips, excluded from the aggregate. Only a
// 401 is fatal, since it invalidates the whole run.
func (s *Service) aggregateRoles(ctx context.Context, token string, guilds []*discordgo.UserGuild) (int, []RoleDetail, error) {
	if len(guilds) == 0 {
		return 0, nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan *discordgo.UserGuild)
	outcomes := make(chan memberOutcome)

	workers := memberFetchWorkers
	if len(guilds) < workers {
		workers = len(guilds)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				member, err := s.client.GuildMember(ctx, token, g.ID)
				outcomes <- memberOutcome{guild: g, member: member, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, g := range guilds {
			select {
			case jobs <- g:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Single reducer: no shared counters between workers. Role counts are
	// keyed by guild so the result is deterministic regardless of
	// completion order.
	rolesByGuild := make(map[string]int, len(guilds))
	var fatal error
	skipped := 0

	for out := range outcomes {
		if fatal != nil {
			continue // draining after cancel
		}
		if out.err != nil {
			if discord.StatusCode(out.err) == http.StatusUnauthorized {
				fatal = ErrTokenInvalid
				cancel()
				continue
			}
			skipped++
			log.Printf("credential: skipping guild %s member probe: %v", out.guild.ID, out.err)
			continue
		}
		rolesByGuild[out.guild.ID] = assignedRoles(out.guild, out.member)
	}

	if fatal != nil {
		return 0, nil, fatal
	}
	if skipped > 0 {
		log.Printf("credential: %d of %d guild member probes skipped", skipped, len(guilds))
	}

	serversWithRoles := 0
	var details []RoleDetail
	for _, g := range guilds {
		n, ok := rolesByGuild[g.ID]
		if !ok || n == 0 {
			continue
		}
		serversWithRoles++
		if len(details) < maxRoleDetails {
			details = append(details, RoleDetail{
				GuildName: s.sanitize(g.Name),
				RoleCount: n,
			})
		}
	}
	return serversWithRoles, details, nil
}

// assignedRoles counts real role assignments. The member endpoint omits
// @everyone today, but a role id equal to the guild id is that default
// role, so it is stripped before the non-empty test.
func assignedRoles(guild *discordgo.UserGuild, member *discordgo.Member) int {
	n := 0
	for _, roleID := range member.Roles {
		if roleID == guild.ID {
			continue
		}
		n++
	}
	return n
}
