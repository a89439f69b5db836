package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
)

var stdout io.Writer = os.Stdout

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(b))
	return err
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(stdout, "no results")
		return
	}
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatUint(v uint) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatUint(uint64(v), 10)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func printImportResult(r application.ImportResult) {
	if r.Skipped {
		_, _ = fmt.Fprintln(stdout, "legacy database already imported, skipping (use --force to re-import)")
		return
	}
	printKV([][2]string{
		{"dump", r.Path},
		{"created_tables", orDash(strings.Join(r.CreatedTables, ","))},
		{"statements", strconv.Itoa(r.Statements)},
		{"executed", strconv.Itoa(r.Executed)},
		{"failed", strconv.Itoa(r.Failed)},
		{"ignored", strconv.Itoa(r.Ignored)},
	})
}

func printTreeResults(items []application.TreeResult) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.OldTreeID), 10),
			formatUint(item.NewTreeID),
			string(item.Status),
			strconv.Itoa(item.NodesCount),
			strconv.Itoa(item.EdgesCount),
			strconv.Itoa(len(item.SkippedPersons)),
			orDash(item.Error),
		})
	}
	printTable([]string{"OLD_TREE", "LAYOUT", "STATUS", "NODES", "EDGES", "SKIPPED", "ERROR"}, rows)
}

func printBatch(b application.BatchResult) {
	printTreeResults(b.Trees)
	_, _ = fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", b.SuccessCount, b.ErrorCount)
}

func printReport(r application.Report) {
	printBatch(r.FamilyTrees)
	_, _ = fmt.Fprintln(stdout)

	s := r.Summary
	rows := [][2]string{
		{"scope", string(s.Scope)},
		{"users", strconv.Itoa(s.TotalUsersMigrated)},
		{"users_created", strconv.Itoa(s.UsersCreated)},
		{"users_existing", strconv.Itoa(s.UsersAlreadyExisting)},
		{"users_failed", strconv.Itoa(s.UsersFailed)},
		{"trees", strconv.Itoa(s.TotalFamilyTreesMigrated)},
		{"trees_failed", strconv.Itoa(s.FamilyTreesFailed)},
		{"nodes", strconv.Itoa(s.TotalNodes)},
		{"edges", strconv.Itoa(s.TotalEdges)},
	}
	if s.Scope == application.ScopeComplete {
		rows = append(rows,
			[2]string{"education", strconv.Itoa(s.TotalEducationRecords)},
			[2]string{"deceased_profiles", strconv.Itoa(s.TotalDeceasedProfiles)},
			[2]string{"media", strconv.Itoa(s.TotalMediaFiles)},
			[2]string{"cities", strconv.Itoa(s.TotalCities)},
			[2]string{"additional_tables", strconv.Itoa(s.TotalAdditionalTables)},
		)
	}
	rows = append(rows,
		[2]string{"migrated_at", formatTime(s.MigrationDate)},
		[2]string{"note", s.Note},
	)
	printKV(rows)
}

func printStatus(s application.MigrationStatus) {
	rows := [][2]string{
		{"legacy_imported", strconv.FormatBool(s.OldDatabase.Imported)},
		{"migration_ready", strconv.FormatBool(s.MigrationReady)},
	}
	if st := s.OldDatabase.Stats; st != nil {
		rows = append(rows,
			[2]string{"legacy_people", strconv.FormatInt(st.People, 10)},
			[2]string{"legacy_active_trees", strconv.FormatInt(st.Trees, 10)},
			[2]string{"legacy_tree_people", strconv.FormatInt(st.TreePeople, 10)},
			[2]string{"legacy_templates", strconv.FormatInt(st.Templates, 10)},
			[2]string{"legacy_cities", strconv.FormatInt(st.Cities, 10)},
		)
	}
	t := s.NewDatabase.Stats
	rows = append(rows,
		[2]string{"users", strconv.FormatInt(t.Users, 10)},
		[2]string{"layouts", strconv.FormatInt(t.Layouts, 10)},
		[2]string{"nodes", strconv.FormatInt(t.Nodes, 10)},
		[2]string{"edges", strconv.FormatInt(t.Edges, 10)},
		[2]string{"education", strconv.FormatInt(t.Education, 10)},
		[2]string{"deceased_profiles", strconv.FormatInt(t.Deceased, 10)},
		[2]string{"media", strconv.FormatInt(t.Media, 10)},
	)
	printKV(rows)
}

func printTrees(items []domain.AvailableTree) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			strconv.FormatUint(uint64(item.OwnerPersonID), 10),
			orDash(item.TemplateTitle),
			orDash(item.PaidAt),
		})
	}
	printTable([]string{"ID", "OWNER", "TEMPLATE", "PAID_AT"}, rows)
}
