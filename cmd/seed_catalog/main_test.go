package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	rows := [][]string{
		{"P1", "Audífono X", "hearing_aid", "si", "1.250,50", "900", "no", ""},
		{"B1", "Pilas 312", "battery", "0", "12.5", "", "1", "pair"},
	}
	products, err := parseProducts(rows)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.True(t, products[0].serialized)
	assert.True(t, products[0].mrp.Equal(decimal.RequireFromString("1250.50")))
	require.NotNil(t, products[0].dealer)
	assert.Equal(t, "piece", products[0].unit)

	assert.False(t, products[1].serialized)
	assert.True(t, products[1].taxed)
	assert.Nil(t, products[1].dealer)
	assert.Equal(t, "pair", products[1].unit)
}

func TestParseProducts_UnidadInvalida(t *testing.T) {
	_, err := parseProducts([][]string{{"P1", "X", "", "1", "10", "", "0", "box"}})
	assert.Error(t, err)
}

func TestWriteSQL(t *testing.T) {
	var b strings.Builder
	err := writeSQL(&b,
		[]location{{id: "HO", name: "Casa matriz", address: "Calle 1"}, {id: "BR1", name: "O'Higgins"}},
		[]product{{id: "B1", name: "Pilas", unit: "piece", mrp: decimal.NewFromInt(30)}},
	)
	require.NoError(t, err)
	sql := b.String()
	assert.Contains(t, sql, "('HO', 'Casa matriz', 'Calle 1'),\n")
	assert.Contains(t, sql, "('BR1', 'O''Higgins', '')\n")
	assert.Contains(t, sql, "('B1', 'Pilas', '', false, 30.00, NULL, false, 'piece')\n")
}
