// Command demo builds a small company database and runs a handful of
// representative queries against it, printing the results.
package main

import (
	"fmt"
	"log"

	"github.com/jhh-labs/relq/internal/engine"
	"github.com/jhh-labs/relq/internal/enginetest"
)

func main() {
	db := enginetest.BuildCompany(6)
	fmt.Println(db)
	fmt.Println()

	printSelect(db, "projects", "*", "projects")
	printSelect(db, "employees", "*", "employees")
	printSelectWhere(db, "projects with budget > 1,000,000", "*", "projects", "budget > 1000000")
	printSelect(db, "employee number, budget", "employeeNumber, budget", "employees natural join projects")
	printSelectWhere(db, "budget of the project participated by employee E15",
		"budget", "employees natural join projects", `employeeNumber = "E15"`)
	printSelect(db, "employee count", "count(employeeNumber) as count", "employees")
	printSelect(db, "sum of project budgets", "sum(budget) as sumBudget", "projects")

	seq, err := db.SelectGroupBy("zipCode, count(employeeNumber) as employeeCount", "employees", "zipCode")
	if err != nil {
		log.Fatalf("select_group_by failed: %v", err)
	}
	fmt.Println("employees per zip code:")
	for r := range seq {
		fmt.Println(r)
	}
	fmt.Println()

	seq, err = db.SelectGroupBy("budget, count(employeeNumber) as employeeCount", "employees natural join projects", "budget")
	if err != nil {
		log.Fatalf("select_group_by failed: %v", err)
	}
	fmt.Println("employee count per project budget:")
	for r := range seq {
		fmt.Println(r)
	}
}

func printSelect(db *engine.Database, label, projection, tables string) {
	seq, err := db.Select(projection, tables)
	if err != nil {
		log.Fatalf("select failed: %v", err)
	}
	fmt.Println(label + ":")
	for r := range seq {
		fmt.Println(r)
	}
	fmt.Println()
}

func printSelectWhere(db *engine.Database, label, projection, tables, predicate string) {
	seq, err := db.SelectWhere(projection, tables, predicate)
	if err != nil {
		log.Fatalf("select failed: %v", err)
	}
	fmt.Println(label + ":")
	for r := range seq {
		fmt.Println(r)
	}
	fmt.Println()
}
