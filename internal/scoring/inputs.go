package scoring

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// income is the monthly income picture of a plan
type income struct {
	Salary    decimal.Decimal
	RSU       decimal.Decimal
	Bonus     decimal.Decimal
	Other     decimal.Decimal
	Freelance decimal.Decimal
	Rental    decimal.Decimal
	Dividend  decimal.Decimal
	// RSUFrequency is the vesting frequency used, empty without RSUs
	RSUFrequency string
}

// Total is the combined monthly income from every source
func (i income) Total() decimal.Decimal {
	return i.Salary.Add(i.Additional()).Add(i.Other)
}

// Additional is the monthly income outside the base salary that is taxed
// differently: bonus, RSUs, freelance, rental and dividends
func (i income) Additional() decimal.Decimal {
	return i.Bonus.Add(i.RSU).Add(i.Freelance).Add(i.Rental).Add(i.Dividend)
}

const defaultRSUFrequency = "quarterly"

// monthlyIncome resolves salary (summed across partners) plus RSU, bonus and
// other income converted to monthly amounts
func (s *Scorer) monthlyIncome(record domain.RawInputRecord) income {
	r := s.resolver
	sum := fields.Sum()
	var in income

	in.Salary, _ = r.Number(record, sum, fields.Salary)

	units, hasUnits := r.Number(record, sum, fields.RSUUnits)
	price, hasPrice := r.Number(record, fields.Options{}, fields.RSUPrice)
	if hasUnits && hasPrice && units.IsPositive() && price.IsPositive() {
		in.RSUFrequency = defaultRSUFrequency
		if f, ok := r.Text(record, fields.RSUFrequency); ok {
			in.RSUFrequency = strings.ToLower(strings.TrimSpace(f))
		}
		in.RSU = units.Mul(price).Mul(s.rsuMonthlyFactor(in.RSUFrequency))
	}

	if bonus, ok := r.Number(record, sum, fields.AnnualBonus); ok {
		in.Bonus = bonus.Div(twelve)
	}
	in.Other, _ = r.Number(record, sum, fields.OtherMonthlyIncome)
	in.Freelance, _ = r.Number(record, sum, fields.FreelanceIncome)
	in.Rental, _ = r.Number(record, sum, fields.RentalIncome)
	if dividends, ok := r.Number(record, sum, fields.DividendIncome); ok {
		in.Dividend = dividends.Div(twelve)
	}
	return in
}

// rsuMonthlyFactor converts one vest into a monthly share: monthly vests
// count fully, quarterly 4/12, yearly 1/12
func (s *Scorer) rsuMonthlyFactor(frequency string) decimal.Decimal {
	perYear, ok := s.rules.RSUVestsPerYear[frequency]
	if !ok {
		perYear, ok = s.rules.RSUVestsPerYear[defaultRSUFrequency]
	}
	if !ok {
		return one
	}
	return perYear.Div(twelve)
}

// contributionRates returns pension and training fund rates averaged across
// partners, and whether each was found
func (s *Scorer) contributionRates(record domain.RawInputRecord) (pension, training decimal.Decimal, pensionFound, trainingFound bool) {
	avg := fields.Average()
	pension, pensionFound = s.resolver.Number(record, avg, fields.PensionEmployeeRate)
	training, trainingFound = s.resolver.Number(record, avg, fields.TrainingFundEmployeeRate)
	return pension, training, pensionFound, trainingFound
}

// balanceFields are the balances counted as retirement savings
var balanceFields = []string{
	fields.CurrentPensionSavings,
	fields.US401kBalance,
	fields.IRABalance,
	fields.CurrentTrainingFund,
	fields.CurrentPersonalPortfolio,
	fields.CurrentRealEstate,
	fields.CurrentCrypto,
	fields.CurrentBankSavings,
}

// totalSavings sums every resolvable balance, partner equivalents included
func (s *Scorer) totalSavings(record domain.RawInputRecord) decimal.Decimal {
	total := zero
	for _, name := range balanceFields {
		if v, ok := s.resolver.Number(record, fields.Sum(), name); ok && v.IsPositive() {
			total = total.Add(v)
		}
	}
	return total
}

// investableFields hold balances with a stock/bond allocation
var investableFields = []string{
	fields.CurrentPensionSavings,
	fields.US401kBalance,
	fields.IRABalance,
	fields.CurrentTrainingFund,
	fields.CurrentPersonalPortfolio,
}

func (s *Scorer) hasInvestableBalance(record domain.RawInputRecord) bool {
	for _, name := range investableFields {
		if v, ok := s.resolver.Number(record, fields.Sum(), name); ok && v.IsPositive() {
			return true
		}
	}
	return false
}

// debtPayments sums debt categories of the expenses object, falling back to
// the flat debt payment field
func (s *Scorer) debtPayments(record domain.RawInputRecord) (decimal.Decimal, bool) {
	if d, ok := fields.DebtPayments(record); ok {
		return d, true
	}
	return s.resolver.Number(record, fields.Sum(), fields.MonthlyDebtPayments)
}

// age returns the current age as a whole number of years
func (s *Scorer) age(record domain.RawInputRecord) (int, bool) {
	v, ok := s.resolver.Number(record, fields.Options{}, fields.CurrentAge)
	if !ok || !v.IsPositive() {
		return 0, false
	}
	return int(v.IntPart()), true
}
