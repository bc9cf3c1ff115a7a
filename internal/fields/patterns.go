package fields

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

type partnerPair struct {
	first, second string
}

func pair(suffix string) partnerPair {
	return partnerPair{first: "partner1" + suffix, second: "partner2" + suffix}
}

// partnerPairs picks the partner key pairs worth probing for a set of
// candidate names. Specific pairs come first, then one generic pair per
// candidate.
func partnerPairs(names []string) []partnerPair {
	joined := strings.ToLower(strings.Join(names, " "))
	has := func(s string) bool { return strings.Contains(joined, s) }

	var pairs []partnerPair
	switch {
	case has("bank"):
		pairs = append(pairs, pair("BankAccount"), pair("BankSavings"), pair("Savings"))
	case has("salary"):
		pairs = append(pairs, pair("Salary"), pair("MonthlySalary"), pair("GrossSalary"), pair("NetSalary"))
	case has("pension") && has("rate"):
		pairs = append(pairs, pair("PensionEmployeeRate"), pair("PensionRate"))
	case has("training") && has("rate"):
		pairs = append(pairs, pair("TrainingFundEmployeeRate"), pair("TrainingFundRate"))
	case has("pension") && has("income"):
		pairs = append(pairs, pair("PensionIncome"))
	case has("pension"):
		pairs = append(pairs, pair("CurrentPension"), pair("PensionSavings"))
	case has("training"):
		pairs = append(pairs, pair("CurrentTrainingFund"), pair("TrainingFund"))
	case has("emergency"):
		pairs = append(pairs, pair("EmergencyFund"))
	case has("portfolio"):
		pairs = append(pairs, pair("PersonalPortfolio"), pair("Portfolio"))
	}

	seen := map[partnerPair]bool{}
	for _, p := range pairs {
		seen[p] = true
	}
	for _, name := range names {
		if name == "" || isPartnerScoped(name) {
			continue
		}
		p := pair(strings.ToUpper(name[:1]) + name[1:])
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	return pairs
}

type heuristicRule struct {
	match func(s string) bool
	keys  []string
}

func contains(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

func without(match func(string) bool, excluded ...string) func(string) bool {
	return func(s string) bool {
		for _, ex := range excluded {
			if strings.Contains(s, ex) {
				return false
			}
		}
		return match(s)
	}
}

// heuristicRules generate likely alias keys from substrings of a candidate
var heuristicRules = []heuristicRule{
	{contains("salary"), []string{
		"salary", "monthlySalary", "grossSalary", "currentSalary", "baseSalary", "monthlyGrossSalary",
		"grossMonthlySalary", "monthlyWage", "wage", "wages", "monthlyPay", "grossPay", "income",
		"monthlyIncome", "grossIncome", "employmentIncome", "earnings", "monthlyEarnings",
		"netSalary", "monthlyNetSalary", "netMonthlySalary", "netIncome", "monthlyNetIncome",
	}},
	{contains("crypto"), []string{"crypto", "cryptoValue", "cryptoHoldings", "cryptoBalance", "bitcoin", "digitalAssets", "currentCryptoValue"}},
	{contains("pension", "rate"), []string{"pensionPercentage", "pensionPercent", "pensionContribution", "employeePensionContribution"}},
	{contains("pension", "income"), []string{"monthlyPension", "pensionMonthly", "pensionPayout", "retirementIncome"}},
	{without(contains("pension"), "rate", "income"), []string{
		"pension", "pensionValue", "pensionAmount", "pensionTotal", "pensionAccount", "pensionAccumulated", "currentPensionValue",
	}},
	{contains("training", "rate"), []string{"trainingFundPercentage", "trainingFundPercent", "kerenHishtalmutRate", "studyFundRate"}},
	{without(contains("training"), "rate"), []string{"kerenHishtalmut", "trainingFundValue", "studyFund", "educationFund"}},
	{contains("emergency"), []string{"emergency", "emergencyCash", "emergencyReserve", "emergencyBalance", "rainyDayFund"}},
	{contains("expense"), []string{"monthlySpending", "spending", "totalExpenses", "expensesTotal", "monthlyCosts", "costOfLiving", "householdExpenses"}},
	{contains("debt"), []string{"debt", "debtPayment", "monthlyDebtPayment", "loanPayments", "monthlyLoanPayments", "totalDebtPayments"}},
	{contains("retirement", "age"), []string{"retireAge", "retirementTargetAge", "ageAtRetirement", "expectedRetirementAge"}},
	{without(contains("age"), "retirement", "mortgage", "percentage"), []string{"yourAge", "ageYears", "personalAge", "myAge"}},
	{contains("portfolio"), []string{"portfolio", "portfolioValue", "investments", "investmentBalance", "brokerage", "taxableAccount"}},
	{contains("realestate"), []string{"property", "properties", "realEstateEquity", "homeEquity", "realEstateInvestment"}},
	{without(contains("bank"), "rate"), []string{"savings", "cash", "cashBalance", "checkingAccount", "bankBalance", "liquidSavings"}},
	{contains("stock"), []string{"stocksPercentage", "stockPercent", "equityPercent", "equities", "stockRatio"}},
	{contains("bonus"), []string{"bonusAnnual", "annualBonusAmount", "yearEndBonus"}},
	{contains("risk"), []string{"risk", "riskAppetite", "investmentRisk", "riskAttitude"}},
	{contains("country"), []string{"countryOfResidence", "residency", "taxResidence"}},
}

// fallbackKeys derives de-duplicated fallback alias keys for the candidates
func fallbackKeys(names []string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, name := range names {
		s := strings.ToLower(name)
		for _, rule := range heuristicRules {
			if !rule.match(s) {
				continue
			}
			for _, k := range rule.keys {
				if !seen[k] {
					seen[k] = true
					keys = append(keys, k)
				}
			}
		}
	}
	return keys
}

// debt categories inside the expenses object
var debtCategories = []string{"mortgage", "carLoan", "creditCard", "otherDebt"}

// DebtPayments sums the debt categories of the record's expenses object
func DebtPayments(record domain.RawInputRecord) (decimal.Decimal, bool) {
	expenses, ok := record["expenses"].(map[string]any)
	if !ok {
		return decimal.Zero, false
	}
	total, found := decimal.Zero, false
	for _, category := range debtCategories {
		if d, ok := ParseNumber(expenses[category]); ok {
			total = total.Add(d)
			found = true
		}
	}
	return total, found
}

// ExpenseTotal sums every category of the record's expenses object, living
// and debt alike. A scalar expenses value is returned as is.
func ExpenseTotal(record domain.RawInputRecord) (decimal.Decimal, bool) {
	switch expenses := record["expenses"].(type) {
	case map[string]any:
		total, found := decimal.Zero, false
		for _, v := range expenses {
			if d, ok := ParseNumber(v); ok {
				total = total.Add(d)
				found = true
			}
		}
		return total, found
	case nil:
		return decimal.Zero, false
	default:
		return ParseNumber(expenses)
	}
}

var (
	allocationNameKeys  = []string{"name", "type", "asset", "assetClass", "category"}
	allocationValueKeys = []string{"percentage", "allocation", "percent", "value"}
	equityMarkers       = []string{"stock", "equit", "share"}
)

// EquityAllocation finds the equity-like entry of the portfolioAllocations
// list and returns its percentage
func EquityAllocation(record domain.RawInputRecord) (decimal.Decimal, bool) {
	list, ok := record["portfolioAllocations"].([]any)
	if !ok {
		return decimal.Zero, false
	}
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok || !isEquityEntry(entry) {
			continue
		}
		for _, key := range allocationValueKeys {
			if d, ok := ParseNumber(entry[key]); ok {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}

func isEquityEntry(entry map[string]any) bool {
	for _, key := range allocationNameKeys {
		name, ok := entry[key].(string)
		if !ok {
			continue
		}
		name = strings.ToLower(name)
		for _, marker := range equityMarkers {
			if strings.Contains(name, marker) {
				return true
			}
		}
	}
	return false
}

// structural resolves candidates from known nested shapes
func structural(record domain.RawInputRecord, names []string) (decimal.Decimal, string, bool) {
	joined := strings.ToLower(strings.Join(names, " "))
	switch {
	case strings.Contains(joined, "debt"):
		if d, ok := DebtPayments(record); ok {
			return d, "expenses", true
		}
	case strings.Contains(joined, "expense"):
		if d, ok := ExpenseTotal(record); ok {
			return d, "expenses", true
		}
	case strings.Contains(joined, "stock"), strings.Contains(joined, "equity"):
		if d, ok := EquityAllocation(record); ok {
			return d, "portfolioAllocations", true
		}
	}
	return decimal.Zero, "", false
}
