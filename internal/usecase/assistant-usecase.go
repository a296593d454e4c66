package usecase

import (
	"strings"
)

type Topic string

const (
	TopicSpending      = Topic("spending")
	TopicSavings       = Topic("savings")
	TopicInvestment    = Topic("investment")
	TopicHealthScore   = Topic("health_score")
	TopicEmergencyFund = Topic("emergency_fund")
	TopicCapabilities  = Topic("capabilities")
)

// ResponseRule pairs trigger phrases with a canned response.
// Triggers are lowercase and matched as substrings of the lowercased input.
type ResponseRule struct {
	Topic    Topic
	Triggers []string
	Response string
}

func (r ResponseRule) matches(lowerInput string) bool {
	for _, trigger := range r.Triggers {
		if strings.Contains(lowerInput, trigger) {
			return true
		}
	}
	return false
}

// DefaultResponseRules returns the assistant rules in priority order: the first match wins.
func DefaultResponseRules() []ResponseRule {
	return []ResponseRule{
		{
			Topic:    TopicSpending,
			Triggers: []string{"overspending", "spending"},
			Response: ResponseSpending,
		},
		{
			Topic:    TopicSavings,
			Triggers: []string{"save", "savings"},
			Response: ResponseSavings,
		},
		{
			Topic:    TopicInvestment,
			Triggers: []string{"investment", "invest"},
			Response: ResponseInvestment,
		},
		{
			Topic:    TopicHealthScore,
			Triggers: []string{"health score", "financial health"},
			Response: ResponseHealthScore,
		},
		{
			Topic:    TopicEmergencyFund,
			Triggers: []string{"emergency", "emergency fund"},
			Response: ResponseEmergencyFund,
		},
	}
}

func DefaultFallbackRule() ResponseRule {
	return ResponseRule{
		Topic:    TopicCapabilities,
		Response: ResponseCapabilities,
	}
}

type AssistantUsecase struct {
	rules    []ResponseRule
	fallback ResponseRule
	greeting string
}

func NewAssistantUsecase(rules []ResponseRule, fallback ResponseRule) *AssistantUsecase {
	prepared := make([]ResponseRule, 0, len(rules))
	for _, rule := range rules {
		triggers := make([]string, 0, len(rule.Triggers))
		for _, trigger := range rule.Triggers {
			triggers = append(triggers, strings.ToLower(trigger))
		}
		rule.Triggers = triggers
		prepared = append(prepared, rule)
	}
	return &AssistantUsecase{
		rules:    prepared,
		fallback: fallback,
		greeting: MessageAssistantGreeting,
	}
}

func NewDefaultAssistantUsecase() *AssistantUsecase {
	return NewAssistantUsecase(DefaultResponseRules(), DefaultFallbackRule())
}

// Select returns the first rule whose triggers occur in input, or the fallback.
func (a *AssistantUsecase) Select(input string) ResponseRule {
	lowerInput := strings.ToLower(input)
	for _, rule := range a.rules {
		if rule.matches(lowerInput) {
			return rule
		}
	}
	return a.fallback
}

func (a *AssistantUsecase) Respond(input string) string {
	return a.Select(input).Response
}

func (a *AssistantUsecase) Greeting() string {
	return a.greeting
}

// Rules returns a copy of the rules in priority order.
func (a *AssistantUsecase) Rules() []ResponseRule {
	rules := make([]ResponseRule, len(a.rules))
	copy(rules, a.rules)
	return rules
}
