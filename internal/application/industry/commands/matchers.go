package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// SaveMatcherCommand creates an empty matcher of the given kind
type SaveMatcherCommand struct {
	UserID string
	Name   string
	Kind   string
}

// MatcherResponse carries a matcher after a change
type MatcherResponse struct {
	Matcher industry.Matcher
}

func (r MatcherResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Matcher industry.MatcherJSON
	}{industry.MatcherJSON{Matcher: r.Matcher}})
}

func (r *MatcherResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		Matcher industry.MatcherJSON
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Matcher = wire.Matcher.Matcher
	return nil
}

// SaveMatcherHandler handles the SaveMatcher command
type SaveMatcherHandler struct {
	matchers industry.MatcherRepository
}

// NewSaveMatcherHandler creates a new SaveMatcherHandler
func NewSaveMatcherHandler(matchers industry.MatcherRepository) *SaveMatcherHandler {
	return &SaveMatcherHandler{matchers: matchers}
}

// Handle executes the SaveMatcher command
func (h *SaveMatcherHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SaveMatcherCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SaveMatcherCommand")
	}
	if cmd.Name == "" {
		return nil, shared.NewValidationError("name", "required")
	}

	kind, err := industry.ParseMatcherKind(cmd.Kind)
	if err != nil {
		return nil, err
	}
	if _, err := h.matchers.FindByName(ctx, cmd.UserID, cmd.Name); err == nil {
		return nil, shared.NewUserInputError("matcher %s already exists", cmd.Name)
	}

	matcher, err := industry.NewMatcher(kind, cmd.Name, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := h.matchers.Save(ctx, matcher); err != nil {
		return nil, fmt.Errorf("failed to save matcher: %w", err)
	}
	return &MatcherResponse{Matcher: matcher}, nil
}

// DeleteMatcherCommand removes a matcher that no plan refers to
type DeleteMatcherCommand struct {
	UserID string
	Name   string
}

// DeleteMatcherHandler handles the DeleteMatcher command
type DeleteMatcherHandler struct {
	matchers industry.MatcherRepository
	plans    industry.PlanRepository
}

// NewDeleteMatcherHandler creates a new DeleteMatcherHandler
func NewDeleteMatcherHandler(matchers industry.MatcherRepository, plans industry.PlanRepository) *DeleteMatcherHandler {
	return &DeleteMatcherHandler{matchers: matchers, plans: plans}
}

// Handle executes the DeleteMatcher command
func (h *DeleteMatcherHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeleteMatcherCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteMatcherCommand")
	}

	plans, err := h.plans.ListByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	for _, p := range plans {
		if p.BlueprintMatcher == cmd.Name || p.StructureMatcher == cmd.Name || p.ProductionBlockMatcher == cmd.Name {
			return nil, shared.NewUserInputError("matcher %s is used by plan %s", cmd.Name, p.Name)
		}
	}

	if err := h.matchers.Delete(ctx, cmd.UserID, cmd.Name); err != nil {
		return nil, err
	}
	return &MatcherResponse{}, nil
}

// SetMatcherRuleCommand sets one rule. The value fields used depend on the
// matcher kind: MaterialLevel/TimeLevel for bp, StructureID for structure
// and Level for prod_block.
type SetMatcherRuleCommand struct {
	UserID        string
	Matcher       string
	Key           string
	Target        string
	MaterialLevel int
	TimeLevel     int
	StructureID   int64
	Level         int
}

// SetMatcherRuleHandler handles the SetMatcherRule command
type SetMatcherRuleHandler struct {
	matchers   industry.MatcherRepository
	structures industry.StructureRepository
	reports    ReportInvalidator
}

// NewSetMatcherRuleHandler creates a new SetMatcherRuleHandler
func NewSetMatcherRuleHandler(matchers industry.MatcherRepository, structures industry.StructureRepository, reports ReportInvalidator) *SetMatcherRuleHandler {
	return &SetMatcherRuleHandler{matchers: matchers, structures: structures, reports: reports}
}

// Handle executes the SetMatcherRule command
func (h *SetMatcherRuleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetMatcherRuleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetMatcherRuleCommand")
	}
	if cmd.Target == "" {
		return nil, shared.NewValidationError("target", "required")
	}

	key, err := industry.ParseRuleKey(cmd.Key)
	if err != nil {
		return nil, err
	}
	matcher, err := h.matchers.FindByName(ctx, cmd.UserID, cmd.Matcher)
	if err != nil {
		return nil, err
	}

	switch m := matcher.(type) {
	case *industry.BlueprintMatcher:
		eff, err := industry.EfficiencyFromLevels(cmd.MaterialLevel, cmd.TimeLevel)
		if err != nil {
			return nil, shared.NewValidationError("efficiency", err.Error())
		}
		if err := m.Rules.Set(key, cmd.Target, eff); err != nil {
			return nil, err
		}
	case *industry.StructureMatcher:
		if _, err := h.structures.FindByID(ctx, cmd.StructureID); err != nil {
			return nil, err
		}
		if err := m.Rules.Set(key, cmd.Target, cmd.StructureID); err != nil {
			return nil, err
		}
	case *industry.ProductionBlockMatcher:
		if err := m.Rules.Set(key, cmd.Target, cmd.Level); err != nil {
			return nil, err
		}
	default:
		return nil, &industry.ErrInvalidMatcherKind{Kind: string(matcher.Kind())}
	}

	if err := h.matchers.Save(ctx, matcher); err != nil {
		return nil, fmt.Errorf("failed to save matcher: %w", err)
	}
	h.reports.InvalidateUser(cmd.UserID)
	return &MatcherResponse{Matcher: matcher}, nil
}

// UnsetMatcherRuleCommand removes one rule
type UnsetMatcherRuleCommand struct {
	UserID  string
	Matcher string
	Key     string
	Target  string
}

// UnsetMatcherRuleHandler handles the UnsetMatcherRule command
type UnsetMatcherRuleHandler struct {
	matchers industry.MatcherRepository
	reports  ReportInvalidator
}

// NewUnsetMatcherRuleHandler creates a new UnsetMatcherRuleHandler
func NewUnsetMatcherRuleHandler(matchers industry.MatcherRepository, reports ReportInvalidator) *UnsetMatcherRuleHandler {
	return &UnsetMatcherRuleHandler{matchers: matchers, reports: reports}
}

// Handle executes the UnsetMatcherRule command
func (h *UnsetMatcherRuleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UnsetMatcherRuleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UnsetMatcherRuleCommand")
	}

	key, err := industry.ParseRuleKey(cmd.Key)
	if err != nil {
		return nil, err
	}
	matcher, err := h.matchers.FindByName(ctx, cmd.UserID, cmd.Matcher)
	if err != nil {
		return nil, err
	}

	var removed bool
	switch m := matcher.(type) {
	case *industry.BlueprintMatcher:
		removed = m.Rules.Unset(key, cmd.Target)
	case *industry.StructureMatcher:
		removed = m.Rules.Unset(key, cmd.Target)
	case *industry.ProductionBlockMatcher:
		removed = m.Rules.Unset(key, cmd.Target)
	}
	if !removed {
		return nil, shared.NewUserInputError("matcher %s has no %s rule for %s", cmd.Matcher, key, cmd.Target)
	}

	if err := h.matchers.Save(ctx, matcher); err != nil {
		return nil, fmt.Errorf("failed to save matcher: %w", err)
	}
	h.reports.InvalidateUser(cmd.UserID)
	return &MatcherResponse{Matcher: matcher}, nil
}

// matcherDocument is the YAML layout of an imported matcher
type matcherDocument struct {
	Name  string    `yaml:"name"`
	Kind  string    `yaml:"kind"`
	Rules yaml.Node `yaml:"rules"`
}

// ImportMatcherCommand creates or replaces a matcher from a YAML document:
//
//	name: t2-default
//	kind: bp
//	rules:
//	  category:
//	    Module: {mater_eff: 0.98, time_eff: 0.96}
type ImportMatcherCommand struct {
	UserID   string
	Document []byte
}

// ImportMatcherHandler handles the ImportMatcher command
type ImportMatcherHandler struct {
	matchers   industry.MatcherRepository
	structures industry.StructureRepository
	reports    ReportInvalidator
}

// NewImportMatcherHandler creates a new ImportMatcherHandler
func NewImportMatcherHandler(matchers industry.MatcherRepository, structures industry.StructureRepository, reports ReportInvalidator) *ImportMatcherHandler {
	return &ImportMatcherHandler{matchers: matchers, structures: structures, reports: reports}
}

// Handle executes the ImportMatcher command
func (h *ImportMatcherHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportMatcherCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportMatcherCommand")
	}

	var doc matcherDocument
	if err := yaml.Unmarshal(cmd.Document, &doc); err != nil {
		return nil, shared.NewUserInputError("invalid matcher document: %v", err)
	}
	if doc.Name == "" {
		return nil, shared.NewValidationError("name", "required")
	}
	kind, err := industry.ParseMatcherKind(doc.Kind)
	if err != nil {
		return nil, err
	}
	matcher, err := industry.NewMatcher(kind, doc.Name, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if !doc.Rules.IsZero() {
		switch m := matcher.(type) {
		case *industry.BlueprintMatcher:
			err = doc.Rules.Decode(&m.Rules)
		case *industry.StructureMatcher:
			err = doc.Rules.Decode(&m.Rules)
			if err == nil {
				err = h.requireStructures(ctx, m.StructureIDs())
			}
		case *industry.ProductionBlockMatcher:
			err = doc.Rules.Decode(&m.Rules)
		}
		if err != nil {
			var typeErr *yaml.TypeError
			if errors.As(err, &typeErr) {
				return nil, shared.NewUserInputError("invalid %s rules: %v", kind, err)
			}
			return nil, err
		}
	}

	if err := h.matchers.Save(ctx, matcher); err != nil {
		return nil, fmt.Errorf("failed to save matcher: %w", err)
	}
	h.reports.InvalidateUser(cmd.UserID)
	return &MatcherResponse{Matcher: matcher}, nil
}

func (h *ImportMatcherHandler) requireStructures(ctx context.Context, ids []int64) error {
	found, err := h.structures.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[int64]bool, len(found))
	for _, s := range found {
		known[s.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return &industry.ErrStructureNotFound{ID: id}
		}
	}
	return nil
}
