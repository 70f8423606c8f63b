package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevels(t *testing.T) {
	t.Parallel()

	levels, err := parseLevels("warning")
	require.NoError(t, err)
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}, levels)

	levels, err = parseLevels("trace")
	require.NoError(t, err)
	assert.Equal(t, logrus.AllLevels, levels)

	_, err = parseLevels("tea")
	assert.EqualError(t, err, "unknown log level tea")

	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, lvl)
}
