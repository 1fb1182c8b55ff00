package main

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLog(t *testing.T) {
	out, flags := log.Writer(), log.Flags()
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// каталог журнала не создаётся, вывод остаётся прежним
	setupLog(filepath.Join(blocker, "logs", "app.log"))
	assert.Equal(t, out, log.Writer())

	path := filepath.Join(dir, "logs", "app.log")
	setupLog(path)
	log.Printf("Проверка журнала")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Проверка журнала")
}
