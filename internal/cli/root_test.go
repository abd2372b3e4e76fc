package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/blog-engagement/pkg/helpers"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "reconcile", "--driver", "memory", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSeedCommand_JSON(t *testing.T) {
	helpers.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { helpers.PasswordCost = bcrypt.DefaultCost })

	out, err := run(t, "seed", "--driver", "memory", "--format", "json", "--users", "4")
	require.NoError(t, err)

	var res SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.AdminID)
	assert.Len(t, res.Users, 4)
	assert.Equal(t, 4, res.Posts)
	assert.Equal(t, 3, res.Follows)
}

func TestSeedCommand_Text(t *testing.T) {
	helpers.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { helpers.PasswordCost = bcrypt.DefaultCost })

	out, err := run(t, "seed", "--driver", "memory", "--users", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "users:   1")
	assert.Contains(t, out, "follows: 0")
}

func TestReconcileCommand_CleanStore(t *testing.T) {
	out, err := run(t, "reconcile", "--driver", "memory", "--format", "json")
	require.NoError(t, err)

	var res ReconcileResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Zero(t, res.Repaired)
}

func TestMigrateCommand_NeedsPostgres(t *testing.T) {
	_, err := run(t, "migrate", "--driver", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
