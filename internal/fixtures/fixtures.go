// Package fixtures holds the static mock figures rendered by the dashboards.
package fixtures

import (
	_ "embed"
	"fmt"

	"github.com/iamvkosarev/fintrack/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var raw []byte

// superExtras are the figures only the super dashboard shows on top of the normal one.
type superExtras struct {
	NetWorth             float64                     `yaml:"net_worth"`
	Assets               model.BalanceSheet          `yaml:"assets"`
	Liabilities          model.BalanceSheet          `yaml:"liabilities"`
	FinancialHealthScore float64                     `yaml:"financial_health_score"`
	RiskProfile          string                      `yaml:"risk_profile"`
	AssetVsLiability     []model.AssetLiabilityPoint `yaml:"asset_vs_liability"`
}

type document struct {
	Normal     model.NormalDashboard `yaml:"normal"`
	Super      superExtras           `yaml:"super"`
	Investment model.InvestmentPlan  `yaml:"investment"`
	Prompts    []string              `yaml:"prompts"`
}

type Fixtures struct {
	Normal     model.NormalDashboard
	Super      model.SuperDashboard
	Investment model.InvestmentPlan
	Prompts    []string
}

// Load parses the embedded fixtures.
func Load() (*Fixtures, error) {
	return Parse(raw)
}

func Parse(data []byte) (*Fixtures, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures: %w", err)
	}
	return &Fixtures{
		Normal: doc.Normal,
		Super: model.SuperDashboard{
			NormalDashboard:      doc.Normal,
			NetWorth:             doc.Super.NetWorth,
			Assets:               doc.Super.Assets,
			Liabilities:          doc.Super.Liabilities,
			FinancialHealthScore: doc.Super.FinancialHealthScore,
			RiskProfile:          doc.Super.RiskProfile,
			AssetVsLiability:     doc.Super.AssetVsLiability,
		},
		Investment: doc.Investment,
		Prompts:    doc.Prompts,
	}, nil
}
