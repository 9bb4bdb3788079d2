package configuration

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, "default", c.Org.DataSourceProvider)
	require.Equal(t, 4, c.Org.TreeIndent)
	require.Equal(t, "development", c.GoAppEnvironment)
	require.NotNil(t, c.Logger())
	require.Contains(t, c.Database.Opts, "dbname=orghierarchy")
	require.Contains(t, c.Database.Opts, "host=localhost")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ORG_DATA_SOURCE_PROVIDER", "postgres")
	t.Setenv("ORG_TREE_INDENT", "2")
	t.Setenv("DB_NAME", "orgs_test")
	t.Setenv("LOG_LEVEL", "debug")

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, "postgres", c.Org.DataSourceProvider)
	require.Equal(t, 2, c.Org.TreeIndent)
	require.Contains(t, c.Database.ConnectionString(), "orgs_test")
	require.Equal(t, logrus.DebugLevel, c.LogrusLogLevel())
}

func TestLoadRejectsNegativeIndent(t *testing.T) {
	t.Setenv("ORG_TREE_INDENT", "-1")

	c := &Configuration{}
	require.Error(t, c.load(nil))
}

func TestLogrusLogLevelMapping(t *testing.T) {
	c := &Configuration{LogLevel: "silent"}
	require.Equal(t, logrus.PanicLevel, c.LogrusLogLevel())
	c.LogLevel = "warn"
	require.Equal(t, logrus.WarnLevel, c.LogrusLogLevel())
	c.LogLevel = "unknown"
	require.Equal(t, logrus.ErrorLevel, c.LogrusLogLevel())
}
