package industry

import (
	"encoding/json"
	"fmt"
)

// MarshalMatcherRules encodes the rule table of any matcher variant
func MarshalMatcherRules(m Matcher) ([]byte, error) {
	switch v := m.(type) {
	case *BlueprintMatcher:
		return json.Marshal(v.Rules)
	case *StructureMatcher:
		return json.Marshal(v.Rules)
	case *ProductionBlockMatcher:
		return json.Marshal(v.Rules)
	}
	return nil, &ErrInvalidMatcherKind{Kind: fmt.Sprintf("%T", m)}
}

// UnmarshalMatcherRules replaces the rule table of m with data
func UnmarshalMatcherRules(m Matcher, data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch v := m.(type) {
	case *BlueprintMatcher:
		return json.Unmarshal(data, &v.Rules)
	case *StructureMatcher:
		return json.Unmarshal(data, &v.Rules)
	case *ProductionBlockMatcher:
		return json.Unmarshal(data, &v.Rules)
	}
	return &ErrInvalidMatcherKind{Kind: fmt.Sprintf("%T", m)}
}

// MatcherJSON carries a matcher of any kind through JSON
type MatcherJSON struct {
	Matcher Matcher
}

type matcherWire struct {
	Name   string          `json:"name"`
	UserID string          `json:"user_id"`
	Kind   MatcherKind     `json:"kind"`
	Rules  json.RawMessage `json:"rules"`
}

func (m MatcherJSON) MarshalJSON() ([]byte, error) {
	if m.Matcher == nil {
		return []byte("null"), nil
	}
	rules, err := MarshalMatcherRules(m.Matcher)
	if err != nil {
		return nil, err
	}
	return json.Marshal(matcherWire{
		Name:   m.Matcher.MatcherName(),
		UserID: m.Matcher.MatcherOwner(),
		Kind:   m.Matcher.Kind(),
		Rules:  rules,
	})
}

func (m *MatcherJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		m.Matcher = nil
		return nil
	}
	var wire matcherWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	matcher, err := NewMatcher(wire.Kind, wire.Name, wire.UserID)
	if err != nil {
		return err
	}
	if err := UnmarshalMatcherRules(matcher, wire.Rules); err != nil {
		return fmt.Errorf("invalid rules in matcher %s: %w", wire.Name, err)
	}
	m.Matcher = matcher
	return nil
}
