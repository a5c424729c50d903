package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefit-engine/generic"
)

// run executes the command tree against a static G of 124028.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DAGPENGER_G_SOURCE", "static")
	t.Setenv("DAGPENGER_G_AMOUNT", "124028")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestCalculate_DemoClaim(t *testing.T) {
	out, err := run(t, "calculate")
	require.NoError(t, err)

	assert.Contains(t, out, "Caseworker: Ola Nordmann - approved")
	assert.Contains(t, out, "Result: approved - 1924 kr per day.")
	assert.Contains(t, out, "Method: last_year_salary")
}

func TestCalculate_SalaryFlags(t *testing.T) {
	out, err := run(t, "calculate",
		"--salary", "2024=830_000",
		"--salary", "2023=24000",
		"--specialization", "approved_max_rate",
		"--reviewer", "Kari Nordmann",
		"--claimant", "Per",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Claimant: Per")
	assert.Contains(t, out, "Caseworker: Kari Nordmann - approved_max_rate")
	assert.Contains(t, out, "Result: approved - 2863 kr per day.")
}

func TestCalculate_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claim.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"claimant":"Lise","salaries":[{"year":2024,"amount":80000}]}`), 0o600))

	out, err := run(t, "calculate", "--file", path, "--specialization", "denied_low_income")
	require.NoError(t, err)

	assert.Contains(t, out, "Claimant: Lise")
	assert.Contains(t, out, "Result: denied - 0 kr per day.")
	assert.Contains(t, out, "Category: denied_low_income")
}

func TestCalculate_NoReview(t *testing.T) {
	out, err := run(t, "calculate", "--no-review", "--specialization", "denied_low_income")
	require.NoError(t, err)
	assert.Contains(t, out, "Result: unreviewed - 1924 kr per day.")
}

func TestCalculate_Mismatch(t *testing.T) {
	_, err := run(t, "calculate", "--specialization", "approved_max_rate")
	require.Error(t, err)
	assert.True(t, errors.Is(err, generic.ErrCategoryMismatch))
}

func TestCalculate_BadInput(t *testing.T) {
	_, err := run(t, "calculate", "--salary", "2009=100")
	assert.True(t, errors.Is(err, generic.ErrValidation))

	_, err = run(t, "calculate", "--salary", "2024=Inf")
	assert.True(t, errors.Is(err, generic.ErrValidation))

	_, err = run(t, "calculate", "--salary", "2024=NaN")
	assert.True(t, errors.Is(err, generic.ErrValidation))

	_, err = run(t, "calculate", "--specialization", "boss")
	assert.True(t, errors.Is(err, generic.ErrValidation))

	_, err = run(t, "calculate", "--salary", "2024=1", "--file", "claim.json")
	assert.Error(t, err)
}

func TestGrunnbelop(t *testing.T) {
	out, err := run(t, "grunnbelop")
	require.NoError(t, err)

	assert.Contains(t, out, "124028")
	assert.Contains(t, out, "186042")
	assert.Contains(t, out, "372084")
	assert.Contains(t, out, "744168")
}

func TestGrunnbelop_SQLiteAtDate(t *testing.T) {
	t.Setenv("DAGPENGER_DB", filepath.Join(t.TempDir(), "g.db"))

	var out bytes.Buffer
	t.Setenv("DAGPENGER_G_SOURCE", "sqlite")
	root := NewRootCommand()
	root.SetArgs([]string{"grunnbelop", "--date", "2023-06-01"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "118620")

	out.Reset()
	root = NewRootCommand()
	root.SetArgs([]string{"grunnbelop", "--history"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "2019-05-01")
	assert.Contains(t, out.String(), "130160")
}

func TestParseSalaryFlag(t *testing.T) {
	sj, err := parseSalaryFlag("2024=550_000")
	require.NoError(t, err)
	assert.Equal(t, 2024, sj.Year)
	assert.Equal(t, 550000.0, sj.Amount)

	for _, bad := range []string{"2024", "x=1", "2024=lots"} {
		_, err := parseSalaryFlag(bad)
		assert.True(t, errors.Is(err, generic.ErrValidation), bad)
	}
}
