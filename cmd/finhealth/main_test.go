package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finhealth/internal/compare"
	"github.com/rgehrsitz/finhealth/internal/output"
)

const profileYAML = `planningType: individual
currentAge: 30
retirementAge: 67
step2:
  currentMonthlySalary: 15000
  pensionEmployeeRate: 12.5
  trainingFundEmployeeRate: 5
`

func writeProfile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profileYAML), 0644))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "finhealth" {
		t.Errorf("Expected root command use to be 'finhealth', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Expected root command to have descriptions")
	}
	if cmd.PersistentFlags().Lookup("debug") == nil || cmd.PersistentFlags().Lookup("rules") == nil {
		t.Error("Expected --debug and --rules persistent flags")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{"score", "validate", "resolve", "fields", "compare", "serve", "version"}

	cmds := newRootCmd().Commands()
	for _, expected := range expectedCommands {
		found := false
		for _, c := range cmds {
			if c.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command '%s' to be registered with root command", expected)
		}
	}
}

func TestRootCommand_Help(t *testing.T) {
	out := run(t, "--help")
	assert.Contains(t, out, "finhealth")
	assert.Contains(t, out, "score")
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"invalid-command"})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for invalid command")
	}
}

func TestScoreCommand_JSON(t *testing.T) {
	out := run(t, "score", writeProfile(t), "--format", "json", "--title", "My Plan")

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "My Plan", report.Title)
	assert.Equal(t, 46, report.Breakdown.TotalScore)
	assert.NotEmpty(t, report.Assumptions)
}

func TestScoreCommand_Lite(t *testing.T) {
	out := run(t, "score", writeProfile(t), "-f", "lite")
	assert.Contains(t, out, "FINANCIAL HEALTH SCORE SUMMARY")
	assert.Contains(t, out, "Total: 46/100")
}

func TestScoreCommand_RulesOverride(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("max_suggestions: 0\n"), 0644))

	out := run(t, "score", writeProfile(t), "--rules", rules, "-f", "json")
	assert.Contains(t, out, "Loading scoring rules from")
}

func TestValidateCommand(t *testing.T) {
	path := writeProfile(t)
	out := run(t, "validate", path)
	assert.Contains(t, out, "Input file "+path+" is valid")
}

func TestResolveCommand(t *testing.T) {
	out := run(t, "resolve", writeProfile(t), "salary", "country")
	assert.Contains(t, out, "currentMonthlySalary")
	assert.Contains(t, out, "15000")
	assert.Contains(t, out, "(missing)")
}

func TestFieldsCommand(t *testing.T) {
	out := run(t, "fields")
	assert.Contains(t, out, "salary (amount, monthly)")
	assert.Contains(t, out, "currentMonthlySalary")
}

func TestCompareCommand(t *testing.T) {
	out := run(t, "compare", writeProfile(t), "--with", "raise_pension_rate", "--transform", "set:field=emergencyFund,value=90000", "-f", "json")

	var compSet compare.ComparisonSet
	require.NoError(t, json.Unmarshal([]byte(out), &compSet))
	assert.Equal(t, "base", compSet.BaseScenarioName)
	require.Len(t, compSet.AlternativeResults, 2)
	assert.Equal(t, "base_raise_pension_rate", compSet.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "base_set", compSet.AlternativeResults[1].ScenarioName)
}

func TestCompareCommand_ListTemplates(t *testing.T) {
	out := run(t, "compare", "--list-templates")
	assert.Contains(t, out, "Available Templates:")
	assert.Contains(t, out, "build_emergency_fund")
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version")
	assert.Contains(t, out, "finhealth dev")
}
