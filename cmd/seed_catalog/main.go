// seed_catalog genera el script SQL que puebla sedes y productos a partir de las exportaciones CSV
// del catálogo (Excel suele exportarlas en ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalog -locations sedes.csv -products productos.csv [-latin1]
//
// sedes.csv:     id;name;address
// productos.csv: id;name;type;has_serial_number;mrp;dealer_price;tax_applicable;unit_of_count
//
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type location struct {
	id, name, address string
}

type product struct {
	id, name, kind, unit string
	serialized, taxed    bool
	mrp                  decimal.Decimal
	dealer               *decimal.Decimal
}

func main() {
	locationsPath := flag.String("locations", "sedes.csv", "CSV de sedes")
	productsPath := flag.String("products", "productos.csv", "CSV de productos")
	latin1 := flag.Bool("latin1", false, "los CSV vienen en ISO-8859-1")
	flag.Parse()

	locRows, err := readCSV(*locationsPath, *latin1)
	if err != nil {
		fail("Leer sedes", err)
	}
	prodRows, err := readCSV(*productsPath, *latin1)
	if err != nil {
		fail("Leer productos", err)
	}
	locations, err := parseLocations(locRows)
	if err != nil {
		fail("Sedes", err)
	}
	products, err := parseProducts(prodRows)
	if err != nil {
		fail("Productos", err)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fail("Crear archivo", err)
	}
	defer out.Close()

	if err := writeSQL(out, locations, products); err != nil {
		fail("Escribir SQL", err)
	}
	fmt.Printf("Generado %s: %d sedes, %d productos\n", outPath, len(locations), len(products))
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}

func readCSV(path string, latin1 bool) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	// primera fila: encabezados
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}

func parseLocations(rows [][]string) ([]location, error) {
	out := make([]location, 0, len(rows))
	for i, r := range rows {
		if len(r) < 2 || strings.TrimSpace(r[0]) == "" {
			return nil, fmt.Errorf("fila %d: id y name requeridos", i+2)
		}
		l := location{id: strings.TrimSpace(r[0]), name: strings.TrimSpace(r[1])}
		if len(r) > 2 {
			l.address = strings.TrimSpace(r[2])
		}
		out = append(out, l)
	}
	return out, nil
}

func parseProducts(rows [][]string) ([]product, error) {
	out := make([]product, 0, len(rows))
	for i, r := range rows {
		if len(r) < 8 {
			return nil, fmt.Errorf("fila %d: se esperaban 8 columnas, hay %d", i+2, len(r))
		}
		p := product{
			id:         strings.TrimSpace(r[0]),
			name:       strings.TrimSpace(r[1]),
			kind:       strings.TrimSpace(r[2]),
			serialized: isTrue(r[3]),
			taxed:      isTrue(r[6]),
			unit:       strings.ToLower(strings.TrimSpace(r[7])),
		}
		if p.id == "" || p.name == "" {
			return nil, fmt.Errorf("fila %d: id y name requeridos", i+2)
		}
		if p.unit == "" {
			p.unit = "piece"
		}
		if p.unit != "piece" && p.unit != "pair" {
			return nil, fmt.Errorf("fila %d: unit_of_count %q no válido", i+2, p.unit)
		}
		mrp, err := parseAmount(r[4])
		if err != nil {
			return nil, fmt.Errorf("fila %d: mrp: %w", i+2, err)
		}
		p.mrp = mrp
		if strings.TrimSpace(r[5]) != "" {
			dealer, err := parseAmount(r[5])
			if err != nil {
				return nil, fmt.Errorf("fila %d: dealer_price: %w", i+2, err)
			}
			p.dealer = &dealer
		}
		out = append(out, p)
	}
	return out, nil
}

// parseAmount acepta coma decimal ("1250,50") además de punto.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	return decimal.NewFromString(s)
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "si", "sí", "yes", "x":
		return true
	}
	return false
}

func writeSQL(out io.Writer, locations []location, products []product) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial: sedes y productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if len(locations) > 0 {
		b.WriteString("-- 1. Sedes\n")
		b.WriteString("INSERT INTO locations (id, name, address) VALUES\n")
		for i, l := range locations {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s')", escapeSQL(l.id), escapeSQL(l.name), escapeSQL(l.address))
			b.WriteString(sep(i, len(locations)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, updated_at = now();\n\n")
	}

	if len(products) > 0 {
		b.WriteString("-- 2. Productos\n")
		b.WriteString("INSERT INTO products (id, name, type, has_serial_number, mrp, dealer_price, tax_applicable, unit_of_count) VALUES\n")
		for i, p := range products {
			dealer := "NULL"
			if p.dealer != nil {
				dealer = p.dealer.StringFixed(2)
			}
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', %t, %s, %s, %t, '%s')",
				escapeSQL(p.id), escapeSQL(p.name), escapeSQL(p.kind), p.serialized,
				p.mrp.StringFixed(2), dealer, p.taxed, p.unit)
			b.WriteString(sep(i, len(products)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type,\n")
		b.WriteString("  has_serial_number = EXCLUDED.has_serial_number, mrp = EXCLUDED.mrp, dealer_price = EXCLUDED.dealer_price,\n")
		b.WriteString("  tax_applicable = EXCLUDED.tax_applicable, unit_of_count = EXCLUDED.unit_of_count, updated_at = now();\n")
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
