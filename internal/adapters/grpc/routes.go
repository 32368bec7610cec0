package grpc

import (
	"reflect"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "kahuna.v1.PlanService"

// route binds one RPC method to a mediator request and its response type
type route struct {
	method      string
	newRequest  func() mediator.Request
	newResponse func() mediator.Response
}

func newRoute[Req any, Resp any](method string) route {
	return route{
		method:      method,
		newRequest:  func() mediator.Request { return new(Req) },
		newResponse: func() mediator.Response { return new(Resp) },
	}
}

var routes = []route{
	newRoute[commands.CreatePlanCommand, commands.CreatePlanResponse]("CreatePlan"),
	newRoute[commands.DeletePlanCommand, commands.DeletePlanResponse]("DeletePlan"),
	newRoute[commands.AddPlanLineCommand, commands.PlanResponse]("AddPlanLine"),
	newRoute[commands.DeletePlanLinesCommand, commands.PlanResponse]("DeletePlanLines"),
	newRoute[commands.ChangePlanLineIndexCommand, commands.PlanResponse]("ChangePlanLineIndex"),
	newRoute[commands.SetPlanCycleTimeCommand, commands.PlanResponse]("SetPlanCycleTime"),
	newRoute[commands.SetContainerVisibilityCommand, commands.PlanResponse]("SetContainerVisibility"),
	newRoute[commands.SaveMatcherCommand, commands.MatcherResponse]("SaveMatcher"),
	newRoute[commands.DeleteMatcherCommand, commands.MatcherResponse]("DeleteMatcher"),
	newRoute[commands.SetMatcherRuleCommand, commands.MatcherResponse]("SetMatcherRule"),
	newRoute[commands.UnsetMatcherRuleCommand, commands.MatcherResponse]("UnsetMatcherRule"),
	newRoute[commands.ImportMatcherCommand, commands.MatcherResponse]("ImportMatcher"),
	newRoute[commands.SaveStructureCommand, commands.StructureResponse]("SaveStructure"),
	newRoute[commands.SetStructureRigsCommand, commands.StructureResponse]("SetStructureRigs"),
	newRoute[queries.GetPlanReportQuery, queries.GetPlanReportResponse]("GetPlanReport"),
	newRoute[queries.GetPlanCostQuery, queries.GetPlanCostResponse]("GetPlanCost"),
	newRoute[queries.GetCostDetailQuery, queries.GetCostDetailResponse]("GetCostDetail"),
	newRoute[queries.ListPlansQuery, queries.ListPlansResponse]("ListPlans"),
	newRoute[queries.GetPlanQuery, queries.GetPlanResponse]("GetPlan"),
	newRoute[queries.ListMatchersQuery, queries.ListMatchersResponse]("ListMatchers"),
	newRoute[queries.ListStructuresQuery, queries.ListStructuresResponse]("ListStructures"),
}

var (
	routesByMethod = map[string]route{}
	routesByType   = map[reflect.Type]route{}
)

func init() {
	for _, r := range routes {
		routesByMethod[r.method] = r
		routesByType[reflect.TypeOf(r.newRequest())] = r
	}
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
