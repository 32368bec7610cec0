package grpc_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcadapter "github.com/AraragiEro/kahuna-bot/internal/adapters/grpc"
	"github.com/AraragiEro/kahuna-bot/internal/application/auth"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

type handlerFunc func(ctx context.Context, request mediator.Request) (mediator.Response, error)

func (f handlerFunc) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return f(ctx, request)
}

func startDaemon(t *testing.T, m mediator.Mediator, opts grpcadapter.ServerOptions) *grpcadapter.DaemonClientGRPC {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpcadapter.NewDaemonServerWithListener(m, lis, opts)
	go func() {
		_ = server.Start()
	}()
	t.Cleanup(func() { server.Stop(time.Second) })

	client, err := grpcadapter.DialDaemon("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestDaemon_ListPlansRoundTrip(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	m.RegisterMiddleware(auth.UserScopeMiddleware())
	var seenUser string
	require.NoError(t, mediator.RegisterHandler[*queries.ListPlansQuery](m, handlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			query := request.(*queries.ListPlansQuery)
			seenUser = query.UserID
			plan, err := industry.NewPlan(query.UserID, "caps", "bp", "st", "pb", nil)
			if err != nil {
				return nil, err
			}
			if err := plan.AddLine("Widget", 1000, 12); err != nil {
				return nil, err
			}
			return &queries.ListPlansResponse{Plans: []*industry.Plan{plan}}, nil
		})))
	client := startDaemon(t, m, grpcadapter.ServerOptions{})
	ctx := auth.WithUserID(context.Background(), "user-7")

	// Act
	resp, err := client.Send(ctx, &queries.ListPlansQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-7", seenUser, "the caller from metadata fills the request")
	plans := resp.(*queries.ListPlansResponse).Plans
	require.Len(t, plans, 1)
	assert.Equal(t, "caps", plans[0].Name)
	assert.Equal(t, []industry.DemandLine{{Product: "Widget", TypeID: 1000, Quantity: 12}}, plans[0].Lines)
}

func TestDaemon_MatcherResponseKeepsKind(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*commands.SaveMatcherCommand](m, handlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			cmd := request.(*commands.SaveMatcherCommand)
			st := industry.NewStructureMatcher(cmd.Name, cmd.UserID)
			if err := st.Rules.Set(industry.RuleKeyCategory, "Ship", 1035466617946); err != nil {
				return nil, err
			}
			return &commands.MatcherResponse{Matcher: st}, nil
		})))
	client := startDaemon(t, m, grpcadapter.ServerOptions{})

	// Act
	resp, err := client.Send(context.Background(), &commands.SaveMatcherCommand{UserID: "user-1", Name: "st", Kind: "structure"})

	// Assert
	require.NoError(t, err)
	st, ok := resp.(*commands.MatcherResponse).Matcher.(*industry.StructureMatcher)
	require.True(t, ok)
	assert.Equal(t, []int64{1035466617946}, st.StructureIDs())
}

func TestDaemon_ReportRoundTrip(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	report := &services.ResolvedReport{
		UserID:   "user-1",
		PlanName: "caps",
		Lines:    []industry.DemandLine{{Product: "Widget", TypeID: 1000, Quantity: 10}},
		Nodes: []*services.ResolvedNode{{
			TypeID:         1000,
			Name:           "Widget",
			Depth:          2,
			Activity:       industry.ActivityManufacturing,
			ActualQuantity: 4,
			WorkList:       []*industry.WorkUnit{{TypeID: 1000, Source: industry.SourceCopy, Runs: 4}},
		}},
		Edges: []services.AllocationEdge{{Parent: 1000, Child: 34, Index: 0, Quantity: 40, Status: services.EdgePartiallyOnHand}},
		Cost:  services.CostSummary{Material: 1500.5, EIV: 20, Total: 1520.5},
	}
	require.NoError(t, mediator.RegisterHandler[*queries.GetPlanReportQuery](m, handlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			return &queries.GetPlanReportResponse{Report: report, Cached: true}, nil
		})))
	client := startDaemon(t, m, grpcadapter.ServerOptions{})

	// Act
	resp, err := client.Send(context.Background(), &queries.GetPlanReportQuery{UserID: "user-1", PlanName: "caps"})

	// Assert
	require.NoError(t, err)
	got := resp.(*queries.GetPlanReportResponse)
	assert.True(t, got.Cached)
	require.Len(t, got.Report.Edges, 1)
	assert.Equal(t, services.EdgePartiallyOnHand, got.Report.Edges[0].Status)
	require.Len(t, got.Report.Nodes, 1)
	assert.Equal(t, int64(4), got.Report.Nodes[0].ActualRuns())
	assert.Equal(t, industry.SourceCopy, got.Report.Nodes[0].WorkList[0].Source)
	assert.InDelta(t, 1520.5, got.Report.Cost.Total, 1e-9)
}

func TestDaemon_DomainErrorsBecomeInputErrors(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*queries.GetPlanQuery](m, handlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			query := request.(*queries.GetPlanQuery)
			return nil, fmt.Errorf("lookup: %w", &industry.ErrPlanNotFound{UserID: query.UserID, Name: query.PlanName})
		})))
	client := startDaemon(t, m, grpcadapter.ServerOptions{})

	// Act
	_, err := client.Send(context.Background(), &queries.GetPlanQuery{UserID: "user-1", PlanName: "nope"})

	// Assert
	var input *shared.UserInputError
	require.True(t, errors.As(err, &input))
	assert.Contains(t, err.Error(), `plan "nope" not found`)
}

func TestDaemon_RateLimit(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*queries.ListStructuresQuery](m, handlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			return &queries.ListStructuresResponse{}, nil
		})))
	client := startDaemon(t, m, grpcadapter.ServerOptions{RateLimit: 0.001, Burst: 1})

	// Act
	_, first := client.Send(context.Background(), &queries.ListStructuresQuery{})
	_, second := client.Send(context.Background(), &queries.ListStructuresQuery{})

	// Assert
	require.NoError(t, first)
	require.Error(t, second)
	assert.Contains(t, second.Error(), "too many requests")
}

func TestDaemonClient_UnknownRequestType(t *testing.T) {
	// Arrange
	client, err := grpcadapter.DialDaemon("passthrough:///unused", time.Second)
	require.NoError(t, err)
	defer client.Close()

	// Act
	_, err = client.Send(context.Background(), &struct{ Name string }{})

	// Assert
	assert.ErrorContains(t, err, "no daemon method")
}

func TestToStatusError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "not found", err: &industry.ErrMatcherNotFound{Name: "x"}, want: codes.NotFound},
		{name: "user input", err: shared.NewUserInputError("bad"), want: codes.InvalidArgument},
		{name: "policy unset", err: shared.NewPolicyUnsetError("plan", "missing"), want: codes.InvalidArgument},
		{name: "inconsistency", err: shared.NewPlanningInconsistencyError("Widget", "broken", nil), want: codes.Internal},
		{name: "deadline", err: fmt.Errorf("resolve: %w", context.DeadlineExceeded), want: codes.DeadlineExceeded},
		{name: "plain", err: errors.New("db down"), want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			st, ok := status.FromError(grpcadapter.ToStatusError(tt.err))

			// Assert
			require.True(t, ok)
			assert.Equal(t, tt.want, st.Code())
		})
	}
}
