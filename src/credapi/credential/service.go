package credential

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/stake-plus/discord-credcheck/src/credapi/discord"
)

// EvalTimeout bounds one whole evaluation run, member fan-out included.
const EvalTimeout = 10 * time.Second

var (
	// ErrTokenInvalid means a required fetch got a 401. The token is the
	// authorization boundary for every operation, so no partial report is
	// produced.
	ErrTokenInvalid = errors.New("credential: access token invalid or expired")

	// ErrUpstream covers any other failure of a required fetch.
	ErrUpstream = errors.New("credential: upstream fetch failed")
)

// Service runs the evaluation pipeline. It holds no per-run state; every
// Check call is an isolated execution over one token.
type Service struct {
	client     *discord.Client
	thresholds Thresholds
	sanitizer  *bluemonday.Policy
	now        func() time.Time
}

func NewService(client *discord.Client, t Thresholds) *Service {
	return &Service{
		client:     client,
		thresholds: t,
		sanitizer:  bluemonday.StrictPolicy(),
		now:        time.Now,
	}
}

// Check evaluates one access token against the engagement criteria.
// Profile, guild list, and connections are required; any failure there
// aborts. The per-guild member probes tolerate individual failures.
func (s *Service) Check(ctx context.Context, token string) (*Report, error) {
	var (
		user   *discordgo.User
		guilds []*discordgo.UserGuild
		conns  []discord.Connection
	)

	// The three top-level fetches share nothing but the token; run them
	// as independent suspension points.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.client.Me(gctx, token)
		user = u
		return classifyRequired(err)
	})
	g.Go(func() error {
		gs, err := s.client.Guilds(gctx, token)
		guilds = gs
		return classifyRequired(err)
	})
	g.Go(func() error {
		cs, err := s.client.Connections(gctx, token)
		conns = cs
		return classifyRequired(err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	serversWithRoles, roleDetails, err := s.aggregateRoles(ctx, token, guilds)
	if err != nil {
		return nil, err
	}

	age, err := EvaluateAccountAge(user.ID, s.now(), s.thresholds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	for i := range conns {
		conns[i].Name = s.sanitize(conns[i].Name)
	}

	report := Assemble(
		user.ID,
		age,
		EvaluateServerCount(guilds, s.thresholds),
		EvaluateRoleAssignments(serversWithRoles, roleDetails, s.thresholds),
		EvaluateVerifiedConnections(conns, s.thresholds),
	)
	return &report, nil
}

func (s *Service) sanitize(v string) string {
	return s.sanitizer.Sanitize(v)
}

func classifyRequired(err error) error {
	if err == nil {
		return nil
	}
	if discord.StatusCode(err) == http.StatusUnauthorized {
		return ErrTokenInvalid
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
