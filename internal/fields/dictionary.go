package fields

import (
	"regexp"
	"sort"
	"strings"
)

// Kind describes how a canonical field's value is interpreted
type Kind int

const (
	KindAmount Kind = iota
	KindRate
	KindAge
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindAmount:
		return "amount"
	case KindRate:
		return "rate"
	case KindAge:
		return "age"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// FieldDef is one canonical field and its accepted aliases.
// Variants are ordered: earlier aliases win when several are present.
type FieldDef struct {
	Name     string
	Kind     Kind
	Monthly  bool
	Variants []string
}

// Canonical field names used throughout the scorer
const (
	CurrentAge               = "currentAge"
	RetirementAge            = "retirementAge"
	PlanningType             = "planningType"
	Country                  = "country"
	RiskTolerance            = "riskTolerance"
	Salary                   = "salary"
	NetSalary                = "netSalary"
	PensionIncome            = "pensionIncome"
	PensionEmployeeRate      = "pensionEmployeeRate"
	TrainingFundEmployeeRate = "trainingFundEmployeeRate"
	AdditionalMonthlySavings = "additionalMonthlySavings"
	AnnualBonus              = "annualBonus"
	OtherMonthlyIncome       = "otherMonthlyIncome"
	FreelanceIncome          = "freelanceIncome"
	RentalIncome             = "rentalIncome"
	DividendIncome           = "dividendIncome"
	RSUUnits                 = "rsuUnits"
	RSUPrice                 = "rsuPrice"
	RSUFrequency             = "rsuFrequency"
	CurrentPensionSavings    = "currentPensionSavings"
	CurrentTrainingFund      = "currentTrainingFund"
	CurrentPersonalPortfolio = "currentPersonalPortfolio"
	CurrentRealEstate        = "currentRealEstate"
	CurrentCrypto            = "currentCrypto"
	CurrentBankSavings       = "currentBankSavings"
	EmergencyFund            = "emergencyFund"
	US401kBalance            = "us401kBalance"
	IRABalance               = "iraBalance"
	MonthlyExpenses          = "monthlyExpenses"
	MonthlyDebtPayments      = "monthlyDebtPayments"
	StockPercentage          = "stockPercentage"
)

var dictionary = []FieldDef{
	{Name: CurrentAge, Kind: KindAge, Variants: []string{"currentAge", "age", "userAge", "clientAge", "partner1Age"}},
	{Name: RetirementAge, Kind: KindAge, Variants: []string{"retirementAge", "targetRetirementAge", "plannedRetirementAge", "desiredRetirementAge"}},
	{Name: PlanningType, Kind: KindText, Variants: []string{"planningType", "planning_type", "planType"}},
	{Name: Country, Kind: KindText, Variants: []string{"country", "taxCountry", "countryCode", "residenceCountry"}},
	{Name: RiskTolerance, Kind: KindText, Variants: []string{"riskTolerance", "riskProfile", "riskLevel", "investmentRiskTolerance"}},
	{Name: Salary, Kind: KindAmount, Monthly: true, Variants: []string{
		"currentMonthlySalary", "monthlySalary", "salary", "currentSalary", "grossMonthlySalary",
		"monthlyGrossSalary", "grossSalary", "monthlyIncome", "currentMonthlyIncome", "partner1Salary",
	}},
	{Name: NetSalary, Kind: KindAmount, Monthly: true, Variants: []string{
		"currentMonthlyNetSalary", "monthlyNetSalary", "netMonthlySalary", "netSalary", "monthlyNetIncome", "netIncome",
	}},
	{Name: PensionIncome, Kind: KindAmount, Monthly: true, Variants: []string{"pensionIncome", "monthlyPensionIncome", "currentPensionIncome", "pensionPayment"}},
	{Name: PensionEmployeeRate, Kind: KindRate, Variants: []string{
		"pensionEmployeeRate", "pensionContributionRate", "employeePensionRate", "pensionRate", "pensionEmployeeContribution", "partner1PensionEmployeeRate",
	}},
	{Name: TrainingFundEmployeeRate, Kind: KindRate, Variants: []string{
		"trainingFundEmployeeRate", "trainingFundContributionRate", "trainingFundRate", "employeeTrainingFundRate", "partner1TrainingFundEmployeeRate",
	}},
	{Name: AdditionalMonthlySavings, Kind: KindAmount, Monthly: true, Variants: []string{"additionalMonthlySavings", "monthlySavings", "extraMonthlySavings", "monthlyInvestment"}},
	{Name: AnnualBonus, Kind: KindAmount, Variants: []string{"annualBonus", "bonus", "yearlyBonus", "bonusAmount"}},
	{Name: OtherMonthlyIncome, Kind: KindAmount, Monthly: true, Variants: []string{"otherMonthlyIncome", "otherIncome", "additionalIncome", "sideIncome"}},
	{Name: FreelanceIncome, Kind: KindAmount, Monthly: true, Variants: []string{"freelanceIncome", "monthlyFreelanceIncome", "selfEmploymentIncome"}},
	{Name: RentalIncome, Kind: KindAmount, Monthly: true, Variants: []string{"rentalIncome", "monthlyRentalIncome", "rentIncome"}},
	{Name: DividendIncome, Kind: KindAmount, Variants: []string{"dividendIncome", "annualDividendIncome", "dividends"}},
	{Name: RSUUnits, Kind: KindAmount, Variants: []string{"rsuUnits", "rsuUnitsPerVest", "rsuQuantity", "rsuShares"}},
	{Name: RSUPrice, Kind: KindAmount, Variants: []string{"rsuPrice", "rsuCurrentStockPrice", "rsuStockPrice", "stockPrice"}},
	{Name: RSUFrequency, Kind: KindText, Variants: []string{"rsuFrequency", "rsuVestingFrequency", "vestingFrequency"}},
	{Name: CurrentPensionSavings, Kind: KindAmount, Variants: []string{
		"currentPensionSavings", "pensionSavings", "currentPension", "pensionBalance", "pensionFund", "retirementSavings", "partner1CurrentPension",
	}},
	{Name: CurrentTrainingFund, Kind: KindAmount, Variants: []string{
		"currentTrainingFund", "trainingFund", "trainingFundBalance", "currentTrainingFundBalance", "partner1CurrentTrainingFund",
	}},
	{Name: CurrentPersonalPortfolio, Kind: KindAmount, Variants: []string{
		"currentPersonalPortfolio", "personalPortfolio", "investmentPortfolio", "currentPortfolio", "brokerageAccount", "currentInvestments",
	}},
	{Name: CurrentRealEstate, Kind: KindAmount, Variants: []string{"currentRealEstate", "realEstate", "realEstateValue", "propertyValue", "investmentProperty"}},
	{Name: CurrentCrypto, Kind: KindAmount, Variants: []string{"currentCrypto", "crypto", "cryptoBalance", "cryptocurrency", "currentCryptocurrency"}},
	{Name: CurrentBankSavings, Kind: KindAmount, Variants: []string{
		"currentBankSavings", "currentSavings", "bankAccount", "bankSavings", "savingsAccount", "cashSavings", "currentBankAccount", "partner1BankAccount",
	}},
	{Name: EmergencyFund, Kind: KindAmount, Variants: []string{"emergencyFund", "emergencyFundAmount", "emergencySavings", "currentEmergencyFund", "partner1EmergencyFund"}},
	{Name: US401kBalance, Kind: KindAmount, Variants: []string{"us401kBalance", "current401k", "401kBalance", "balance401k"}},
	{Name: IRABalance, Kind: KindAmount, Variants: []string{"iraBalance", "currentIRA", "rothIRA", "traditionalIRA"}},
	{Name: MonthlyExpenses, Kind: KindAmount, Monthly: true, Variants: []string{"monthlyExpenses", "currentMonthlyExpenses", "totalMonthlyExpenses", "livingExpenses"}},
	{Name: MonthlyDebtPayments, Kind: KindAmount, Monthly: true, Variants: []string{"monthlyDebtPayments", "debtPayments", "totalMonthlyDebt", "monthlyDebt"}},
	{Name: StockPercentage, Kind: KindRate, Variants: []string{"stockPercentage", "stockAllocation", "equityPercentage", "equityAllocation", "stocksPercent"}},
}

// mappedKeys is the short direct-mapping table tried before the dictionary.
// It covers the keys the wizard writes most often so common lookups never
// reach the alias scan.
var mappedKeys = map[string][]string{
	Salary:                   {"currentMonthlySalary", "monthlySalary"},
	CurrentAge:               {"currentAge"},
	RetirementAge:            {"retirementAge"},
	PensionEmployeeRate:      {"pensionEmployeeRate"},
	TrainingFundEmployeeRate: {"trainingFundEmployeeRate"},
	CurrentPensionSavings:    {"currentPensionSavings", "pensionSavings"},
	EmergencyFund:            {"emergencyFund"},
}

// stringFields are never parsed numerically
var stringFields = []string{
	"risktolerance", "riskprofile", "country", "planningtype", "plantype", "rsufrequency",
	"vestingfrequency", "currency", "employmenttype", "maritalstatus",
}

var (
	byName       = map[string]*FieldDef{}
	byNormalized = map[string]*FieldDef{}
	knownKeys    []string
)

func init() {
	seen := map[string]bool{}
	for i := range dictionary {
		def := &dictionary[i]
		byName[def.Name] = def
		byNormalized[Normalize(def.Name)] = def
		addKnown(seen, def.Name)
		for _, v := range def.Variants {
			if _, taken := byName[v]; !taken {
				byName[v] = def
			}
			addKnown(seen, v)
			if isPartnerScoped(v) {
				continue
			}
			n := Normalize(v)
			if _, taken := byNormalized[n]; !taken {
				byNormalized[n] = def
			}
		}
	}
	sort.Strings(knownKeys)
}

func addKnown(seen map[string]bool, key string) {
	if !seen[key] {
		seen[key] = true
		knownKeys = append(knownKeys, key)
	}
}

var (
	separators   = regexp.MustCompile(`[_\-\s]+`)
	partnerIndex = regexp.MustCompile(`partner\d+`)
)

// Normalize lower-cases a field name and strips separators and partner index digits.
// "Partner_2-Monthly Salary" becomes "partnermonthlysalary".
func Normalize(name string) string {
	n := strings.ToLower(separators.ReplaceAllString(name, ""))
	return partnerIndex.ReplaceAllString(n, "partner")
}

// Lookup finds the canonical definition for a name by exact canonical name,
// exact alias, or normalized match
func Lookup(name string) (*FieldDef, bool) {
	if def, ok := byName[name]; ok {
		return def, true
	}
	def, ok := byNormalized[Normalize(name)]
	return def, ok
}

// Definitions returns a copy of the canonical dictionary in declaration order
func Definitions() []FieldDef {
	out := make([]FieldDef, len(dictionary))
	for i, d := range dictionary {
		d.Variants = append([]string(nil), d.Variants...)
		out[i] = d
	}
	return out
}

// KnownKeys returns every canonical name and alias, sorted
func KnownKeys() []string {
	return append([]string(nil), knownKeys...)
}

// IsStringField reports whether a field name denotes a text-valued field
func IsStringField(name string) bool {
	if def, ok := Lookup(name); ok && def.Kind == KindText {
		return true
	}
	n := strings.TrimPrefix(Normalize(name), "partner")
	for _, s := range stringFields {
		if n == s {
			return true
		}
	}
	return false
}

func isPartnerScoped(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), "partner")
}
