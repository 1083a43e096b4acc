package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_RemovesPartialFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reporte_ventas_20260101.csv")

	err := writeFile(path, func(w io.Writer) error {
		w.Write([]byte("id,product_id\n1,"))
		return errors.New("planilha corrompida")
	})

	assert.EqualError(t, err, "planilha corrompida")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFile_KeepsCompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_inventario_20260101.yaml")

	err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "products: []\n")
		return err
	})

	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "products: []\n", string(content))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = parseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, 28, d.Day())

	_, err = parseDate("28/02/2026")
	assert.Error(t, err)
}
