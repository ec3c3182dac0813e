// Command posql is a thin demonstrator binary: it commits a CSV file's
// columns under a Dory setup, runs one SELECT statement against them
// through the planio compiler and the query package's prove/verify
// round trip, and prints the verified result table. It plays the same
// minimal, explicit, no-framework role the teacher's examples/basic
// binaries play for a compiled circuit (§SPEC_FULL.md's AMBIENT STACK).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/ingest"
	"github.com/varshith257/sxt-proof-of-sql/planio"
	"github.com/varshith257/sxt-proof-of-sql/query"
)

func main() {
	csvPath := flag.String("csv", "", "path to the CSV file to commit")
	schemaSpec := flag.String("schema", "", "column schema, e.g. \"id:BIGINT,name:VARCHAR,price:DECIMAL(9,2)\"")
	tableName := flag.String("table", "t", "table name the SQL statement refers to")
	sql := flag.String("sql", "", "SELECT statement to run against the committed table")
	maxNu := flag.Int("max-nu", 10, "Dory max_nu (bounds committable table size to 4^max_nu rows)")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *csvPath == "" || *schemaSpec == "" || *sql == "" {
		fmt.Fprintln(os.Stderr, "usage: posql -csv FILE -schema SPEC -sql QUERY [-table NAME] [-max-nu N]")
		os.Exit(2)
	}

	if err := run(*csvPath, *schemaSpec, *tableName, *sql, *maxNu); err != nil {
		log.Fatal().Err(err).Msg("posql failed")
	}
}

func run(csvPath, schemaSpec, tableName, sqlText string, maxNu int) error {
	spec, err := ingest.ParseSchema(schemaSpec)
	if err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", csvPath, err)
	}
	defer f.Close()

	log.Info().Str("path", csvPath).Msg("reading CSV")
	data, err := ingest.ReadCSV(f, spec)
	if err != nil {
		return err
	}
	log.Info().Int("rows", data.NumRows()).Msg("loaded table")

	pp, err := dory.Setup(maxNu, dory.TestOnly)
	if err != nil {
		return fmt.Errorf("dory setup: %w", err)
	}
	ps := dory.NewProverSetup(pp)
	vs, err := dory.NewVerifierSetup(pp)
	if err != nil {
		return fmt.Errorf("dory verifier setup: %w", err)
	}

	ref := arena.NewTableRef("", tableName)
	log.Info().Msg("committing columns")
	commitments, err := ingest.CommitTable(ps, ref, data)
	if err != nil {
		return err
	}

	schema := &owningSchema{ref: ref, spec: spec, length: data.NumRows()}
	accessor := &owningAccessor{ref: ref, table: data}
	commitAccessor := &owningCommitments{commitments: commitments}

	stmt, err := planio.Parse(sqlText)
	if err != nil {
		return fmt.Errorf("parsing SQL: %w", err)
	}
	plan, err := planio.Compile(stmt, schema)
	if err != nil {
		return fmt.Errorf("compiling plan: %w", err)
	}

	cfg := query.Config{MaxNu: maxNu}
	log.Info().Msg("proving query")
	resultTable, proof, err := query.ProveQuery(plan, schema, accessor, ps, cfg)
	if err != nil {
		return fmt.Errorf("prove: %w", err)
	}

	log.Info().Msg("verifying query")
	if err := query.VerifyQuery(plan, schema, commitAccessor, vs, resultTable, proof, cfg); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	fmt.Println("verification succeeded")

	final, err := planio.Apply(stmt, resultTable)
	if err != nil {
		return fmt.Errorf("applying ORDER BY/LIMIT: %w", err)
	}
	printTable(final)
	return nil
}

func printTable(t *arena.OwnedTable) {
	names := t.Names()
	fmt.Println(joinNames(names))
	a := arena.New()
	for row := 0; row < t.NumRows(); row++ {
		for i, name := range names {
			if i > 0 {
				fmt.Print("\t")
			}
			col, _ := t.Column(name)
			fmt.Print(cellString(col, a, row))
		}
		fmt.Println()
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "\t"
		}
		out += n
	}
	return out
}

func cellString(col arena.OwnedColumn, a *arena.Arena, row int) string {
	if col.Type.Kind == arena.KindVarChar {
		return col.VarChars[row].Value
	}
	return col.ToScalars(a)[row].String()
}
