package usecase

import (
	"math"
	"slices"

	"github.com/iamvkosarev/fintrack/internal/fixtures"
	"github.com/iamvkosarev/fintrack/internal/model"
)

const (
	PathDashboard      = "/dashboard"
	PathSuperDashboard = "/super/dashboard"
	PathWallets        = "/wallets"
	PathAssistant      = "/ai-chat"
	PathUpload         = "/upload"
	PathInsights       = "/insights"
	PathInvestment     = "/super/investment"
	PathProfile        = "/profile"
	PathSignIn         = "/sign-in"
)

type DashboardUsecaseDeps struct {
	Fixtures *fixtures.Fixtures
}

// DashboardUsecase serves the static dashboard figures gated by the session role.
type DashboardUsecase struct {
	DashboardUsecaseDeps
}

func NewDashboardUsecase(deps DashboardUsecaseDeps) *DashboardUsecase {
	return &DashboardUsecase{DashboardUsecaseDeps: deps}
}

func (d *DashboardUsecase) Normal(session model.Session) (model.NormalDashboard, error) {
	if err := session.Authorize(model.UserRoleNormal); err != nil {
		return model.NormalDashboard{}, err
	}
	return normalDashboard(d.Fixtures.Normal), nil
}

func (d *DashboardUsecase) Super(session model.Session) (model.SuperDashboard, error) {
	if err := session.Authorize(model.UserRoleSuper); err != nil {
		return model.SuperDashboard{}, err
	}
	dashboard := d.Fixtures.Super
	dashboard.NormalDashboard = normalDashboard(dashboard.NormalDashboard)
	dashboard.Assets.Breakdown = withPercentages(dashboard.Assets.Breakdown)
	dashboard.Liabilities.Breakdown = withPercentages(dashboard.Liabilities.Breakdown)
	dashboard.AssetVsLiability = slices.Clone(dashboard.AssetVsLiability)
	return dashboard, nil
}

func (d *DashboardUsecase) Investment(session model.Session) (model.InvestmentPlan, error) {
	if err := session.Authorize(model.UserRoleSuper); err != nil {
		return model.InvestmentPlan{}, err
	}
	plan := d.Fixtures.Investment
	plan.Allocation = slices.Clone(plan.Allocation)
	plan.Recommendations = slices.Clone(plan.Recommendations)
	return plan, nil
}

func (d *DashboardUsecase) Prompts(session model.Session) ([]string, error) {
	if err := session.Authorize(model.UserRoleNormal); err != nil {
		return nil, err
	}
	return slices.Clone(d.Fixtures.Prompts), nil
}

// HomePath is where a session lands after signing in.
func HomePath(session model.Session) string {
	switch session.Role {
	case model.UserRoleSuper:
		return PathSuperDashboard
	case model.UserRoleNormal:
		return PathDashboard
	default:
		return PathSignIn
	}
}

// Navigation lists the menu entries visible to the session role.
func Navigation(session model.Session) ([]model.NavItem, error) {
	if err := session.Authorize(model.UserRoleNormal); err != nil {
		return nil, err
	}
	super := session.Role == model.UserRoleSuper

	items := []model.NavItem{{Label: "Dashboard", Path: HomePath(session)}}
	if !super {
		items = append(items, model.NavItem{Label: "Wallets", Path: PathWallets})
	}
	items = append(items,
		model.NavItem{Label: "AI Assistant", Path: PathAssistant},
		model.NavItem{Label: "Upload Data", Path: PathUpload},
		model.NavItem{Label: "Insights", Path: PathInsights},
	)
	if super {
		items = append(items, model.NavItem{Label: "Investments", Path: PathInvestment})
	}
	return append(items, model.NavItem{Label: "Profile", Path: PathProfile}), nil
}

func normalDashboard(dashboard model.NormalDashboard) model.NormalDashboard {
	dashboard.IncomeVsExpense = slices.Clone(dashboard.IncomeVsExpense)
	dashboard.ExpensesByCategory = withPercentages(dashboard.ExpensesByCategory)
	dashboard.InvestmentOptions = slices.Clone(dashboard.InvestmentOptions)
	dashboard.Transactions = slices.Clone(dashboard.Transactions)
	return dashboard
}

// withPercentages returns a copy of chart with each share of the total rounded to one decimal.
func withPercentages(chart []model.ChartSlice) []model.ChartSlice {
	if chart == nil {
		return nil
	}
	var total float64
	for _, slice := range chart {
		total += slice.Value
	}
	out := make([]model.ChartSlice, len(chart))
	for i, slice := range chart {
		if total > 0 {
			slice.Percentage = math.Round(slice.Value/total*1000) / 10
		}
		out[i] = slice
	}
	return out
}
