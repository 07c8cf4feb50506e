package migration

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lite2pg/source"
)

// orderTables returns the tables to migrate, parents before children, so
// that destination foreign keys are satisfiable. The order comes from a
// topological sort over the source's foreign key graph; a circular reference
// falls back to catalog order with a warning rather than failing the run.
func orderTables(
	ctx context.Context,
	sourceDB source.SourceDB,
	allTables bool,
	targetTables []string,
) ([]string, error) {
	allTableList, dependencies, err := sourceDB.TableDependencies(ctx)
	if err != nil {
		return nil, err
	}

	orderedTables, err := topologicalSort(allTableList, dependencies)
	if err != nil {
		log.Printf("WARNING: circular dependency detected, falling back to catalog order: %v", err)
		orderedTables = allTableList
	}

	// Filter tables based on user selection
	if !allTables && len(targetTables) > 0 {
		tableMap := make(map[string]bool)
		for _, t := range orderedTables {
			tableMap[strings.ToLower(t)] = true
		}

		targetMap := make(map[string]bool)
		for _, t := range targetTables {
			lowerT := strings.ToLower(t)
			if !tableMap[lowerT] {
				return nil, &source.SchemaReadError{Table: t, Err: fmt.Errorf("table does not exist")}
			}
			targetMap[lowerT] = true
		}

		var filteredTables []string
		for _, t := range orderedTables {
			if targetMap[strings.ToLower(t)] {
				filteredTables = append(filteredTables, t)
			}
		}
		orderedTables = filteredTables
	} else if !allTables {
		return nil, fmt.Errorf("no tables specified")
	}

	return orderedTables, nil
}

// topologicalSort performs topological sorting on tables based on dependencies
func topologicalSort(tables []string, dependencies map[string][]string) ([]string, error) {
	inDegree := make(map[string]int)
	adjList := make(map[string][]string)

	for _, table := range tables {
		lowerTable := strings.ToLower(table)
		inDegree[lowerTable] = 0
		adjList[lowerTable] = []string{}
	}

	// Build adjacency list and calculate in-degrees
	for dependent, refs := range dependencies {
		for _, referenced := range refs {
			// referenced must come before dependent
			adjList[referenced] = append(adjList[referenced], dependent)
			inDegree[dependent]++
		}
	}

	// Seed the queue with tables that reference nothing
	queue := []string{}
	for _, table := range tables {
		if inDegree[strings.ToLower(table)] == 0 {
			queue = append(queue, table)
		}
	}

	result := []string{}
	originalNameMap := make(map[string]string)
	for _, table := range tables {
		originalNameMap[strings.ToLower(table)] = table
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, dependent := range adjList[strings.ToLower(current)] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, originalNameMap[dependent])
			}
		}
	}

	if len(result) != len(tables) {
		return nil, fmt.Errorf("circular dependency detected: got %d tables, expected %d", len(result), len(tables))
	}

	return result, nil
}
