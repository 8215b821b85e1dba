// Package enginetest provides fixtures shared between the demo
// program and the engine test suite: a small "company" database of
// projects and the employees assigned to them.
package enginetest

import (
	"fmt"
	"math"

	"github.com/jhh-labs/relq/internal/engine"
)

var balances = []float64{1000000.0, 2000000.0, 3000000.0}
var zipCodes = []int{12222, 12223, 12224, 12225}

// BuildCompany constructs a Database with "projects" and "employees"
// tables, seeded with SeedCompany(numberOfProjects).
func BuildCompany(numberOfProjects int) *engine.Database {
	db := engine.New("company")
	db.CreateTable("projects").Attribute("projectName").Attribute("budget").Key("projectName")
	db.CreateTable("employees").Attribute("employeeNumber").Attribute("zipCode").Attribute("projectName").Key("employeeNumber")
	SeedCompany(db, numberOfProjects)
	return db
}

// SeedCompany populates an already-created "projects"/"employees"
// pair of tables with numberOfProjects projects, three employees per
// project, and one extra employee on the last project, giving
// end-to-end query results known, reproducible shapes.
func SeedCompany(db *engine.Database, numberOfProjects int) {
	projects := db.Table("projects")
	employees := db.Table("employees")
	const employeesPerProject = 3
	digits := int(math.Ceil(math.Log10(float64(employeesPerProject * numberOfProjects))))
	format := fmt.Sprintf("%%0%dd", digits)

	for i := 0; i < numberOfProjects; i++ {
		projectName := fmt.Sprintf("P"+format, i)
		projects.InsertRecord(projectName, balances[i%len(balances)])
		for j := 0; j < employeesPerProject; j++ {
			employeeNumber := fmt.Sprintf("E"+format, employeesPerProject*i+j)
			zip := zipCodes[(2*i+j)%len(zipCodes)]
			employees.InsertRecord(employeeNumber, zip, projectName)
		}
		if i == numberOfProjects-1 {
			employeeNumber := fmt.Sprintf("E"+format, employeesPerProject*i+employeesPerProject)
			zip := zipCodes[(2*i+employeesPerProject)%len(zipCodes)]
			employees.InsertRecord(employeeNumber, zip, projectName)
		}
	}
}
