package dagpenger

// CalculationMethod is the basis the daily rate is computed from.
type CalculationMethod string

const (
	// MethodLastYearSalary uses the most recent year's salary.
	MethodLastYearSalary CalculationMethod = "last_year_salary"

	// MethodThreeYearAverage uses the average of the three most recent years.
	MethodThreeYearAverage CalculationMethod = "three_year_average"

	// MethodMaxAnnualBenefitBasis caps the basis at 6G.
	MethodMaxAnnualBenefitBasis CalculationMethod = "max_annual_benefit_basis"
)

// Category maps a method to the decision category it produces.
func (m CalculationMethod) Category() Category {
	switch m {
	case MethodMaxAnnualBenefitBasis:
		return CategoryApprovedMaxRate
	default:
		return CategoryApproved
	}
}

func (m CalculationMethod) String() string { return string(m) }
